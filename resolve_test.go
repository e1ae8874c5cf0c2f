package dnfjson

import (
	"testing"

	"github.com/ygalblum/osbuild/internal/rpmmd"
)

func resolveFixtureSack() *rpmmd.Sack {
	sack := rpmmd.NewSack(nil)
	sack.LoadFixture([]rpmmd.Package{
		{Name: "httpd", Version: "2.4", Release: "1", Arch: "x86_64", RepoID: "fedora",
			Provides: []string{"httpd", "webserver"}, Requires: []string{"glibc"}},
		{Name: "glibc", Version: "2.39", Release: "1", Arch: "x86_64", RepoID: "fedora",
			Provides: []string{"glibc"}},
		{Name: "vim", Version: "9.0", Release: "1", Arch: "x86_64", RepoID: "fedora",
			Provides: []string{"vim"}, Requires: []string{"glibc"}},
		{Name: "nginx", Version: "1.26", Release: "1", Arch: "other-repo", RepoID: "other",
			Provides: []string{"webserver"}},
	})
	return sack
}

func TestResolveSingleTransactionPullsRequirements(t *testing.T) {
	sack := resolveFixtureSack()
	pkgs, err := Resolve(sack, []Transaction{{PackageSpecs: []string{"httpd"}}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	names := packageNames(pkgs)
	if len(names) != 2 || names[0] != "httpd" || names[1] != "glibc" {
		t.Fatalf("names = %v, want [httpd glibc] in discovery order", names)
	}
}

func TestResolveCarriesOverBetweenTransactions(t *testing.T) {
	sack := resolveFixtureSack()
	pkgs, err := Resolve(sack, []Transaction{
		{PackageSpecs: []string{"httpd"}},
		{PackageSpecs: []string{"vim"}},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	names := packageNames(pkgs)
	// glibc must appear exactly once, satisfied by the first transaction's carry-over.
	count := 0
	for _, n := range names {
		if n == "glibc" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("glibc appeared %d times in %v, want exactly 1 (carried over)", count, names)
	}
	if names[len(names)-1] != "vim" {
		t.Fatalf("names = %v, want vim last (glibc already satisfied)", names)
	}
}

func TestResolveExcludeSpecsRemovesCandidate(t *testing.T) {
	sack := resolveFixtureSack()
	_, err := Resolve(sack, []Transaction{
		{PackageSpecs: []string{"httpd"}, ExcludeSpecs: []string{"glibc"}},
	})
	if err == nil {
		t.Fatal("expected DepsolveError: glibc excluded, nothing else provides it")
	}
	se, ok := AsError(err)
	if !ok || se.Kind != KindDepsolveError {
		t.Fatalf("expected KindDepsolveError, got %v", err)
	}
}

func TestResolveRepoIDsFiltersCandidates(t *testing.T) {
	sack := resolveFixtureSack()
	pkgs, err := Resolve(sack, []Transaction{
		{PackageSpecs: []string{"webserver"}, RepoIDs: []string{"fedora"}},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	names := packageNames(pkgs)
	if len(names) != 1 || names[0] != "httpd" {
		t.Fatalf("names = %v, want [httpd] (nginx excluded by repo-ids)", names)
	}
}

func TestResolveMarkingErrorOnUnknownSpec(t *testing.T) {
	sack := resolveFixtureSack()
	_, err := Resolve(sack, []Transaction{{PackageSpecs: []string{"nonexistent"}}})
	if err == nil {
		t.Fatal("expected MarkingErrors for an unresolvable package-spec")
	}
	se, ok := AsError(err)
	if !ok || se.Kind != KindMarkingErrors {
		t.Fatalf("expected KindMarkingErrors, got %v", err)
	}
}

func TestResolvePicksNewestOnAmbiguousSpec(t *testing.T) {
	sack := rpmmd.NewSack(nil)
	sack.LoadFixture([]rpmmd.Package{
		{Name: "vim", Version: "8.0", Release: "1", Arch: "x86_64", RepoID: "fedora", Provides: []string{"vim"}},
		{Name: "vim", Version: "9.0", Release: "1", Arch: "x86_64", RepoID: "fedora", Provides: []string{"vim"}},
	})
	pkgs, err := Resolve(sack, []Transaction{{PackageSpecs: []string{"vim"}}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(pkgs) != 1 || pkgs[0].Version != "9.0" {
		t.Fatalf("pkgs = %+v, want the single newest vim", pkgs)
	}
}

func packageNames(pkgs []rpmmd.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}
