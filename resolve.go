package dnfjson

import (
	"strings"

	"github.com/ygalblum/osbuild/internal/rpmmd"
)

// Resolve runs every transaction in order against sack, carrying the
// cumulative installed set from one transaction into the next exactly as a
// single long-lived dnf base's goal/transaction would: a transaction never
// re-resolves a name the previous one already settled, but its own
// package-specs and exclude-specs apply only to itself.
//
// The returned slice is the full, discovery-ordered set of packages pulled
// in across all transactions — the goal packages first, each transaction's
// transitive requirements breadth-first after it.
func Resolve(sack *rpmmd.Sack, txns []Transaction) ([]rpmmd.Package, error) {
	installed := map[string]rpmmd.Package{}
	var order []rpmmd.Package
	allSpecs := unionPackageSpecs(txns)

	for ti, txn := range txns {
		var repoFilter map[string]bool
		if len(txn.RepoIDs) > 0 {
			repoFilter = make(map[string]bool, len(txn.RepoIDs))
			for _, id := range txn.RepoIDs {
				repoFilter[id] = true
			}
		}

		excluded := map[string]bool{}
		for _, spec := range txn.ExcludeSpecs {
			for _, p := range matchSpec(sack, spec) {
				excluded[p.Name] = true
			}
		}

		var queue []rpmmd.Package
		for _, spec := range txn.PackageSpecs {
			candidates := filterExcluded(filterRepo(matchSpec(sack, spec), repoFilter), excluded)
			if len(candidates) == 0 {
				return nil, NewError(KindMarkingErrors, "no package matches %q (transaction %d)", spec, ti)
			}
			queue = append(queue, pickBest(candidates))
		}

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]

			if _, ok := installed[p.Name]; ok {
				continue
			}
			installed[p.Name] = p
			order = append(order, p)

			for _, req := range p.Requires {
				if satisfied(installed, req) {
					continue
				}
				provs := filterExcluded(filterRepo(sack.Provides(req), repoFilter), excluded)
				if len(provs) == 0 {
					return nil, NewError(KindDepsolveError, "nothing provides %q required by %s (transaction %d); package-specs: %s", req, p.NEVRA(), ti, allSpecs)
				}
				queue = append(queue, pickBest(provs))
			}
		}
	}

	return order, nil
}

func filterRepo(pkgs []rpmmd.Package, repoFilter map[string]bool) []rpmmd.Package {
	if repoFilter == nil {
		return pkgs
	}
	out := make([]rpmmd.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if repoFilter[p.RepoID] {
			out = append(out, p)
		}
	}
	return out
}

func filterExcluded(pkgs []rpmmd.Package, excluded map[string]bool) []rpmmd.Package {
	if len(excluded) == 0 {
		return pkgs
	}
	out := make([]rpmmd.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if !excluded[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// pickBest reduces candidates sharing a spec or capability to the single
// newest NEVR, matching dnf's "best" package selection.
func pickBest(candidates []rpmmd.Package) rpmmd.Package {
	best := candidates[0]
	for _, p := range candidates[1:] {
		if p.NewerThan(best) {
			best = p
		}
	}
	return best
}

// unionPackageSpecs concatenates every transaction's package-specs, in
// transaction then within-transaction order, for inclusion in a
// DepsolveError reason so the request can be reproduced from the error
// alone.
func unionPackageSpecs(txns []Transaction) string {
	var specs []string
	for _, txn := range txns {
		specs = append(specs, txn.PackageSpecs...)
	}
	return strings.Join(specs, ", ")
}

// satisfied reports whether some already-installed package provides req.
func satisfied(installed map[string]rpmmd.Package, req string) bool {
	for _, p := range installed {
		for _, prov := range p.Provides {
			if prov == req {
				return true
			}
		}
	}
	return false
}
