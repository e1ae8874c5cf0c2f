package repoconfig

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"
)

// VarDirNames are the two on-disk variable directories dnf/yum read,
// yum's first so dnf's later entries win on conflict.
var VarDirNames = []string{
	filepath.Join("etc", "yum", "vars"),
	filepath.Join("etc", "dnf", "vars"),
}

// ReposConfigDirName is where root_dir-relative repo files live.
const ReposConfigDirName = "etc/yum.repos.d"

// Load runs both loader phases described by the repository descriptor
// loader: Phase A materializes reqRepos as request-sourced repos; Phase B,
// only when rootDir is non-empty, additionally loads every *.repo file
// under <rootDir>/etc/yum.repos.d, merging in on-disk variables and
// rewriting TLS paths for repos that Phase A did not already supply.
//
// The returned slice preserves Phase A's input order followed by the
// on-disk repos in the order os.ReadDir returns them (sorted by name).
func Load(reqRepos []RepoConfig, rootDir, releasever, arch string) ([]RepoConfig, error) {
	vars := NewVars(releasever, arch)

	phaseA := make([]RepoConfig, len(reqRepos))
	seen := make(map[string]bool, len(reqRepos))
	for i, r := range reqRepos {
		r.RequestSourced = true
		if err := r.ValidateShape(); err != nil {
			return nil, errors.Wrapf(err, "repo %q", r.ID)
		}
		r.FillDefaults()
		expandRepo(&r, vars)
		phaseA[i] = r
		seen[r.ID] = true
	}

	if rootDir == "" {
		return phaseA, nil
	}

	if err := vars.LoadDirs(
		filepath.Join(rootDir, VarDirNames[0]),
		filepath.Join(rootDir, VarDirNames[1]),
	); err != nil {
		return nil, errors.Wrap(err, "loading repo variables")
	}

	reposDir := filepath.Join(rootDir, ReposConfigDirName)
	entries, err := os.ReadDir(reposDir)
	if err != nil {
		if os.IsNotExist(err) {
			return phaseA, nil
		}
		return nil, errors.Wrapf(err, "reading %s", reposDir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".repo") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	all := phaseA
	for _, name := range names {
		fileRepos, err := parseRepoFile(filepath.Join(reposDir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}
		for _, r := range fileRepos {
			if seen[r.ID] {
				continue
			}
			if err := r.ValidateShape(); err != nil {
				return nil, errors.Wrapf(err, "repo %q in %s", r.ID, name)
			}
			r.FillDefaults()
			expandRepo(&r, vars)
			rewriteTLSPaths(&r, rootDir)
			all = append(all, r)
			seen[r.ID] = true
		}
	}

	return all, nil
}

func expandRepo(r *RepoConfig, vars Vars) {
	r.BaseURL = vars.ExpandAll(r.BaseURL)
	r.Metalink = vars.Expand(r.Metalink)
	r.MirrorList = vars.Expand(r.MirrorList)
	r.GPGKey = vars.Expand(r.GPGKey)
	r.GPGKeys = vars.ExpandAll(r.GPGKeys)
}

// rewriteTLSPaths prepends root to sslcacert/sslclientcert/sslclientkey
// when the original path is absolute, per the root_dir rewriting rule.
// This only ever runs for repos that were not supplied directly in the
// request (those are treated as host-absolute).
func rewriteTLSPaths(r *RepoConfig, root string) {
	r.SSLCACert = prefixIfAbs(root, r.SSLCACert)
	r.SSLClientCert = prefixIfAbs(root, r.SSLClientCert)
	r.SSLClientKey = prefixIfAbs(root, r.SSLClientKey)
}

func prefixIfAbs(root, p string) string {
	if p == "" || !filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// parseRepoFile parses a yum/dnf .repo file (one [section] per repo id)
// into RepoConfigs, tagged RequestSourced = false.
func parseRepoFile(path string) ([]RepoConfig, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return nil, err
	}

	var repos []RepoConfig
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}

		r := RepoConfig{ID: sec.Name()}
		if k, err := sec.GetKey("name"); err == nil {
			r.Name = k.String()
		}
		if k, err := sec.GetKey("baseurl"); err == nil {
			r.BaseURL = splitMultiValue(k.String())
		}
		if k, err := sec.GetKey("metalink"); err == nil {
			r.Metalink = k.String()
		}
		if k, err := sec.GetKey("mirrorlist"); err == nil {
			r.MirrorList = k.String()
		}
		if k, err := sec.GetKey("sslverify"); err == nil {
			if b, err := strconv.ParseBool(k.String()); err == nil {
				r.SSLVerify = &b
			}
		}
		if k, err := sec.GetKey("sslcacert"); err == nil {
			r.SSLCACert = k.String()
		}
		if k, err := sec.GetKey("sslclientkey"); err == nil {
			r.SSLClientKey = k.String()
		}
		if k, err := sec.GetKey("sslclientcert"); err == nil {
			r.SSLClientCert = k.String()
		}
		if k, err := sec.GetKey("gpgcheck"); err == nil {
			if b, err := strconv.ParseBool(k.String()); err == nil {
				r.GPGCheck = &b
			}
		}
		if k, err := sec.GetKey("repo_gpgcheck"); err == nil {
			if b, err := strconv.ParseBool(k.String()); err == nil {
				r.RepoGPGCheck = &b
			}
		}
		if k, err := sec.GetKey("gpgkey"); err == nil {
			keys := splitMultiValue(k.String())
			if len(keys) > 0 {
				r.GPGKeys = keys
			}
		}
		if k, err := sec.GetKey("metadata_expire"); err == nil {
			r.MetadataExpire = k.String()
		}
		if k, err := sec.GetKey("module_hotfixes"); err == nil {
			if b, err := strconv.ParseBool(k.String()); err == nil {
				r.ModuleHotfixes = &b
			}
		}

		repos = append(repos, r)
	}

	return repos, nil
}

// splitMultiValue splits a yum-style multi-line/whitespace separated value
// (used for baseurl and gpgkey) into individual entries.
func splitMultiValue(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
