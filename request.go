package dnfjson

import "github.com/ygalblum/osbuild/internal/repoconfig"

// Command is the top-level operation a Request asks the solver to perform.
type Command string

const (
	CommandDump     Command = "dump"
	CommandDepsolve Command = "depsolve"
	CommandSearch   Command = "search"
)

func (c Command) valid() bool {
	switch c {
	case CommandDump, CommandDepsolve, CommandSearch:
		return true
	default:
		return false
	}
}

// Request is the single JSON object read from stdin.
type Request struct {
	Command          Command   `json:"command"`
	Arch             string    `json:"arch"`
	ModulePlatformID string    `json:"module_platform_id"`
	ReleaseVer       string    `json:"releasever"`
	Proxy            string    `json:"proxy,omitempty"`
	CacheDir         string    `json:"cachedir,omitempty"`
	Arguments        Arguments `json:"arguments"`
}

// Arguments holds the command-specific payload. Which fields are meaningful
// depends on Request.Command; all three commands share Repos/RootDir.
type Arguments struct {
	Repos        []repoconfig.RepoConfig `json:"repos,omitempty"`
	RootDir      string                  `json:"root_dir,omitempty"`
	Transactions []Transaction           `json:"transactions,omitempty"`
	Search       *SearchArgs             `json:"search,omitempty"`
}

// Transaction is one step of a depsolve request: a set of packages to
// install and exclude, resolved against the cumulative installed set left
// by the prior transaction.
type Transaction struct {
	PackageSpecs    []string `json:"package-specs"`
	ExcludeSpecs    []string `json:"exclude-specs,omitempty"`
	RepoIDs         []string `json:"repo-ids,omitempty"`
	InstallWeakDeps bool     `json:"install_weak_deps,omitempty"`
}

// SearchArgs is the arguments.search payload for the search command.
type SearchArgs struct {
	Packages []string `json:"packages"`
	Latest   bool     `json:"latest"`
}

// ValidateRequest enforces the input schema and rejects malformed requests
// before any side effect. It is purely structural: no filesystem or network
// access happens here or as a result of it.
func ValidateRequest(req *Request) error {
	if req == nil {
		return NewError(KindInvalidRequest, "empty request")
	}
	if req.Command == "" {
		return NewError(KindInvalidRequest, "no 'command' specified")
	}
	if !req.Command.valid() {
		return NewError(KindInvalidRequest, "unknown command %q", req.Command)
	}
	if req.Arch == "" {
		return NewError(KindInvalidRequest, "'arch' must be specified")
	}
	if req.ModulePlatformID == "" {
		return NewError(KindInvalidRequest, "'module_platform_id' must be specified")
	}
	if req.ReleaseVer == "" {
		return NewError(KindInvalidRequest, "'releasever' must be specified")
	}
	if len(req.Arguments.Repos) == 0 && req.Arguments.RootDir == "" {
		return NewError(KindInvalidRequest, "no 'repos' or 'root_dir' specified")
	}

	switch req.Command {
	case CommandSearch:
		if req.Arguments.Search == nil || len(req.Arguments.Search.Packages) == 0 {
			return NewError(KindInvalidRequest, "'arguments.search.packages' must be specified")
		}
	case CommandDepsolve:
		if len(req.Arguments.Transactions) == 0 {
			return NewError(KindInvalidRequest, "'arguments.transactions' must be specified")
		}
		for i, txn := range req.Arguments.Transactions {
			if len(txn.PackageSpecs) == 0 {
				return NewError(KindInvalidRequest, "transaction %d has no 'package-specs'", i)
			}
		}
	}

	for i, repo := range req.Arguments.Repos {
		if err := repo.ValidateShape(); err != nil {
			return NewError(KindInvalidRequest, "repo %d (%s): %s", i, repo.ID, err)
		}
	}

	return nil
}
