package dnfjson

import (
	"github.com/ygalblum/osbuild/internal/rpmmd"
)

// Dump returns every package in the sack, in load order, as full
// descriptors.
func Dump(sack *rpmmd.Sack) []PackageDescriptor {
	pkgs := sack.AllPackages()
	out := make([]PackageDescriptor, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, newPackageDescriptor(p))
	}
	return out
}

// Search matches args.Packages against the sack, one pattern at a time, and
// concatenates the results in input order without deduplicating across
// patterns. Each pattern is classified as exact, substring ("*foo*") or glob
// (anything else containing '*') before matching. When args.Latest is set,
// each pattern's own matches are reduced to the single newest NEVR per name.
func Search(sack *rpmmd.Sack, args SearchArgs) []PackageDescriptor {
	var out []PackageDescriptor
	for _, pattern := range args.Packages {
		matches := searchPattern(sack, pattern)
		if args.Latest {
			matches = latestPerName(matches)
		}
		for _, p := range matches {
			out = append(out, newPackageDescriptor(p))
		}
	}
	return out
}

func searchPattern(sack *rpmmd.Sack, pattern string) []rpmmd.Package {
	var out []rpmmd.Package
	for _, p := range sack.AllPackages() {
		if matchPattern(pattern, p.Name) {
			out = append(out, p)
		}
	}
	return out
}

// latestPerName reduces pkgs to the single newest-NEVR entry per name,
// preserving the first-seen name's position in the output.
func latestPerName(pkgs []rpmmd.Package) []rpmmd.Package {
	best := map[string]rpmmd.Package{}
	var order []string
	for _, p := range pkgs {
		cur, seen := best[p.Name]
		if !seen {
			order = append(order, p.Name)
			best[p.Name] = p
			continue
		}
		if p.NewerThan(cur) {
			best[p.Name] = p
		}
	}
	out := make([]rpmmd.Package, 0, len(order))
	for _, name := range order {
		out = append(out, best[name])
	}
	return out
}
