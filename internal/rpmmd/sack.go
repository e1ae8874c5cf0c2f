package rpmmd

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// NewHTTPClient builds a retrying HTTP client for sack metadata fetches,
// routed through proxy when non-empty.
func NewHTTPClient(proxy string) (*retryablehttp.Client, error) {
	client := retryablehttp.NewClient()
	client.Logger = nil
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, errors.Wrap(err, "parsing proxy URL")
		}
		client.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return client, nil
}

// LoadOptions carries the global engine configuration the loader part of
// the spec mutates on the underlying metadata engine (zchunk, fastest
// mirror, the metadata_expire policy). Recorded here rather than as
// process-wide state, per the spec's "no process-wide state" design note.
// Callers are expected to set ZchunkDisabled and FastestMirror per spec
// §4.3 ("zchunk disabled globally, fastest-mirror heuristic enabled");
// LoadRepo retains the options it was called with (see LoadOptionsFor) so
// they round-trip into diagnostics even though this Sack resolves exactly
// one mirror per repo and so has no fastest-mirror race to run.
type LoadOptions struct {
	ZchunkDisabled bool
	FastestMirror  bool
	MetadataExpire string
}

// Sack is an in-memory, queryable index of one or more repos' package
// metadata, loaded over HTTP or from local fixture directories.
type Sack struct {
	client      *retryablehttp.Client
	packages    []Package
	byName      map[string][]int
	provides    map[string][]int
	loadOptions map[string]LoadOptions
}

// NewSack builds an empty Sack. client may be nil, in which case a default
// retrying client is created.
func NewSack(client *retryablehttp.Client) *Sack {
	if client == nil {
		client = retryablehttp.NewClient()
		client.Logger = nil
	}
	return &Sack{
		client:      client,
		byName:      map[string][]int{},
		provides:    map[string][]int{},
		loadOptions: map[string]LoadOptions{},
	}
}

// LoadRepo fetches repodata/repomd.xml from baseURL, then the "primary"
// metadata file it points at, and indexes every package under repoID.
func (s *Sack) LoadRepo(repoID, baseURL string, opts LoadOptions) error {
	s.loadOptions[repoID] = opts

	repomdBytes, err := fetch(s.client, joinRepoPath(baseURL, "repodata/repomd.xml"))
	if err != nil {
		return errors.Wrapf(err, "fetching repomd.xml for repo %q", repoID)
	}

	md, err := parseRepomd(repomdBytes)
	if err != nil {
		return errors.Wrapf(err, "parsing repomd.xml for repo %q", repoID)
	}

	href := md.primaryLocation()
	if href == "" {
		return errors.Errorf("repo %q has no primary metadata", repoID)
	}

	primaryBytes, err := fetch(s.client, joinRepoPath(baseURL, href))
	if err != nil {
		return errors.Wrapf(err, "fetching primary metadata for repo %q", repoID)
	}

	if strings.HasSuffix(href, ".gz") {
		primaryBytes, err = gunzip(primaryBytes)
		if err != nil {
			return errors.Wrapf(err, "decompressing primary metadata for repo %q", repoID)
		}
	}

	pkgs, err := parsePrimary(primaryBytes, repoID)
	if err != nil {
		return errors.Wrapf(err, "parsing primary metadata for repo %q", repoID)
	}

	s.add(pkgs)
	return nil
}

// LoadFixture indexes pkgs directly, bypassing any fetch — used by tests
// and by any caller that already has a parsed package list in hand.
func (s *Sack) LoadFixture(pkgs []Package) {
	s.add(pkgs)
}

func (s *Sack) add(pkgs []Package) {
	for _, p := range pkgs {
		idx := len(s.packages)
		s.packages = append(s.packages, p)
		s.byName[p.Name] = append(s.byName[p.Name], idx)
		for _, prov := range p.Provides {
			s.provides[prov] = append(s.provides[prov], idx)
		}
	}
}

// AllPackages returns every indexed package, in load order.
func (s *Sack) AllPackages() []Package {
	return s.packages
}

// FindByName returns every package with the given exact name, in load
// order.
func (s *Sack) FindByName(name string) []Package {
	idxs := s.byName[name]
	out := make([]Package, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.packages[i])
	}
	return out
}

// LoadOptionsFor returns the LoadOptions a prior LoadRepo call for repoID
// was given, or the zero value if repoID was never loaded.
func (s *Sack) LoadOptionsFor(repoID string) LoadOptions {
	return s.loadOptions[repoID]
}

// Provides returns every package that provides capability, in load order.
func (s *Sack) Provides(capability string) []Package {
	idxs := s.provides[capability]
	out := make([]Package, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.packages[i])
	}
	return out
}

func joinRepoPath(baseURL, rel string) string {
	if strings.HasSuffix(baseURL, "/") {
		return baseURL + rel
	}
	return baseURL + "/" + rel
}

// fetch reads ref over HTTP(S) or from the local filesystem: a bare path or
// a file:// URL.
func fetch(client *retryablehttp.Client, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		resp, err := client.Get(ref)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, errors.Errorf("unexpected status %s fetching %s", resp.Status, ref)
		}
		return io.ReadAll(resp.Body)
	}

	p := ref
	if u != nil && u.Scheme == "file" {
		p = u.Path
	}
	return os.ReadFile(path.Clean(p))
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
