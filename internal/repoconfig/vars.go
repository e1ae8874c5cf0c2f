package repoconfig

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// varRef matches both $name and ${name} forms, the two substitution
// syntaxes yum/dnf repo files and baseurls use.
var varRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Vars is the set of substitution variables available when materializing a
// repo: the built-ins seeded from the request (releasever, basearch, arch)
// overlaid with whatever the image root's var directories define.
type Vars map[string]string

// NewVars seeds the built-in variables every request carries regardless of
// root_dir.
func NewVars(releasever, arch string) Vars {
	return Vars{
		"releasever": releasever,
		"basearch":   arch,
		"arch":       arch,
	}
}

// LoadDirs reads one file per variable from each directory in order, later
// directories overriding earlier ones, mirroring how dnf merges
// /etc/yum/vars and /etc/dnf/vars (dnf's directory is read after yum's).
func (v Vars) LoadDirs(dirs ...string) error {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return err
			}
			v[e.Name()] = strings.TrimRight(string(data), "\n")
		}
	}
	return nil
}

// Expand substitutes every $name/${name} reference in s with its value from
// v, leaving unknown references untouched.
func (v Vars) Expand(s string) string {
	return varRef.ReplaceAllStringFunc(s, func(m string) string {
		sub := varRef.FindStringSubmatch(m)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		if val, ok := v[name]; ok {
			return val
		}
		return m
	})
}

// ExpandAll returns a new slice holding every string of ss with its
// references substituted; ss itself is not modified.
func (v Vars) ExpandAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = v.Expand(s)
	}
	return out
}
