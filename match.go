package dnfjson

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/ygalblum/osbuild/internal/rpmmd"
)

// matchPattern implements the three-way pattern classification the query
// engine uses for search: exact name, substring (both ends wrapped in
// '*'), and glob otherwise.
func matchPattern(pattern, name string) bool {
	switch {
	case !strings.Contains(pattern, "*"):
		return pattern == name
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*") && len(pattern) > 1:
		return strings.Contains(name, pattern[1:len(pattern)-1])
	default:
		g, err := glob.Compile(pattern)
		if err != nil {
			return false
		}
		return g.Match(name)
	}
}

// matchSpec resolves a package-specs / exclude-specs entry against the
// sack: a plain spec is tried as a name, then as a full NEVRA, then as a
// provided capability, so "vim", "vim-9.0-1.x86_64" and "webserver" (a
// virtual provide) all work the way dnf's mark-install does. A spec
// containing '*' is always treated as a glob over package names and NEVRAs.
func matchSpec(sack *rpmmd.Sack, spec string) []rpmmd.Package {
	if !strings.Contains(spec, "*") {
		if pkgs := sack.FindByName(spec); len(pkgs) > 0 {
			return pkgs
		}
		var out []rpmmd.Package
		for _, p := range sack.AllPackages() {
			if p.NEVRA() == spec {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
		return sack.Provides(spec)
	}

	g, err := glob.Compile(spec)
	if err != nil {
		return nil
	}
	var out []rpmmd.Package
	for _, p := range sack.AllPackages() {
		if g.Match(p.Name) || g.Match(p.NEVRA()) {
			out = append(out, p)
		}
	}
	return out
}
