package dnfjson

import (
	"os"
	"strings"

	"github.com/ygalblum/osbuild/internal/repoconfig"
	"github.com/ygalblum/osbuild/internal/rpmmd"
)

// Solve runs one request end to end: validation, cache/persist directory
// setup, repository loading and GPG key materialization, sack population,
// and finally the command itself. It is the sole entry point cmd/dnf-json
// calls; one Solve call corresponds to one subprocess invocation.
//
// The returned value is one of []PackageDescriptor (dump, search) or
// *DepsolveResponse (depsolve). Every error returned is a *Error with a
// Kind already assigned.
func Solve(req *Request) (any, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	cacheDir, err := ResolveCacheDir(req)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, WrapError(KindError, err, "creating cache dir")
	}

	persistDir, err := os.MkdirTemp(cacheDir, "dnfjson-")
	if err != nil {
		return nil, WrapError(KindError, err, "creating persist dir")
	}
	defer os.RemoveAll(persistDir)

	repos, err := repoconfig.Load(req.Arguments.Repos, req.Arguments.RootDir, req.ReleaseVer, req.Arch)
	if err != nil {
		return nil, WrapError(KindRepoError, err, "")
	}

	materializer, err := repoconfig.NewMaterializer(persistDir, req.Arguments.RootDir, req.Proxy)
	if err != nil {
		return nil, WrapError(KindError, err, "configuring proxy")
	}
	repos, err = materializer.PrepareInline(repos)
	if err != nil {
		return nil, WrapError(KindGPGKeyReadError, err, "")
	}

	sackClient, err := rpmmd.NewHTTPClient(req.Proxy)
	if err != nil {
		return nil, WrapError(KindError, err, "configuring proxy")
	}

	sack := rpmmd.NewSack(sackClient)
	byID := make(map[string]repoconfig.RepoConfig, len(repos))
	for _, repo := range repos {
		byID[repo.ID] = repo

		base, ok := primaryBaseURL(repo)
		if !ok {
			continue
		}
		opts := rpmmd.LoadOptions{
			ZchunkDisabled: true,
			FastestMirror:  true,
			MetadataExpire: repo.MetadataExpire,
		}
		if err := sack.LoadRepo(repo.ID, base, opts); err != nil {
			return nil, WrapError(KindRepoError, err, "")
		}
	}

	switch req.Command {
	case CommandDump:
		return Dump(sack), nil

	case CommandSearch:
		return Search(sack, *req.Arguments.Search), nil

	case CommandDepsolve:
		pkgs, err := Resolve(sack, req.Arguments.Transactions)
		if err != nil {
			return nil, err
		}
		return buildDepsolveResponse(pkgs, byID, materializer)

	default:
		return nil, NewError(KindInvalidRequest, "unknown command %q", req.Command)
	}
}

// primaryBaseURL picks the mirror the sack loads metadata from. Metalink
// and mirrorlist repos resolve to a live mirror list at runtime on a real
// host; here, absent that resolution step, only direct baseurl repos are
// loaded, matching the sack's documented role as a boundary implementation.
func primaryBaseURL(repo repoconfig.RepoConfig) (string, bool) {
	if len(repo.BaseURL) == 0 {
		return "", false
	}
	return repo.BaseURL[0], true
}

func buildDepsolveResponse(pkgs []rpmmd.Package, byID map[string]repoconfig.RepoConfig, materializer *repoconfig.Materializer) (*DepsolveResponse, error) {
	resolved := make([]ResolvedPackage, 0, len(pkgs))
	usedRepos := map[string]bool{}

	for _, p := range pkgs {
		repo, ok := byID[p.RepoID]
		if !ok {
			return nil, NewError(KindDepsolveError, "package %s resolved against unknown repo %q", p.NEVRA(), p.RepoID)
		}
		usedRepos[p.RepoID] = true

		remote := ""
		if base, ok := primaryBaseURL(repo); ok {
			remote = joinRemotePath(base, p.Location)
		}
		resolved = append(resolved, newResolvedPackage(p, remote))
	}

	respRepos := make(map[string]repoconfig.RepoConfig, len(usedRepos))
	for id := range usedRepos {
		repo := byID[id]
		keyTexts, err := materializer.ResolveKeyText(repo)
		if err != nil {
			return nil, WrapError(KindGPGKeyReadError, err, "")
		}
		repo.GPGKey = ""
		repo.GPGKeys = keyTexts
		respRepos[id] = repo
	}

	return &DepsolveResponse{Packages: resolved, Repos: respRepos}, nil
}

func joinRemotePath(base, rel string) string {
	if strings.HasSuffix(base, "/") {
		return base + rel
	}
	return base + "/" + rel
}
