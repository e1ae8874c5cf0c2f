package dnfjson

import (
	"testing"

	"github.com/ygalblum/osbuild/internal/repoconfig"
)

func validRequest(cmd Command) *Request {
	return &Request{
		Command:          cmd,
		Arch:             "x86_64",
		ModulePlatformID: "platform:f40",
		ReleaseVer:       "40",
		Arguments: Arguments{
			Repos: []repoconfig.RepoConfig{{ID: "fedora", BaseURL: []string{"https://example.com"}}},
		},
	}
}

func TestValidateRequestNil(t *testing.T) {
	if err := ValidateRequest(nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}

func TestValidateRequestMissingFields(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Request)
	}{
		{"no command", func(r *Request) { r.Command = "" }},
		{"bad command", func(r *Request) { r.Command = "explode" }},
		{"no arch", func(r *Request) { r.Arch = "" }},
		{"no module_platform_id", func(r *Request) { r.ModulePlatformID = "" }},
		{"no releasever", func(r *Request) { r.ReleaseVer = "" }},
		{"no repos or root_dir", func(r *Request) { r.Arguments.Repos = nil }},
	}
	for _, c := range cases {
		req := validRequest(CommandDump)
		c.mut(req)
		if err := ValidateRequest(req); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestValidateRequestRootDirSatisfiesRepoRequirement(t *testing.T) {
	req := validRequest(CommandDump)
	req.Arguments.Repos = nil
	req.Arguments.RootDir = "/some/root"
	if err := ValidateRequest(req); err != nil {
		t.Errorf("expected root_dir alone to satisfy the repos requirement, got %v", err)
	}
}

func TestValidateRequestSearchNeedsPackages(t *testing.T) {
	req := validRequest(CommandSearch)
	if err := ValidateRequest(req); err == nil {
		t.Fatal("expected error: search with no arguments.search")
	}
	req.Arguments.Search = &SearchArgs{}
	if err := ValidateRequest(req); err == nil {
		t.Fatal("expected error: search with empty packages")
	}
	req.Arguments.Search.Packages = []string{"vim"}
	if err := ValidateRequest(req); err != nil {
		t.Errorf("expected valid search request, got %v", err)
	}
}

func TestValidateRequestDepsolveNeedsTransactions(t *testing.T) {
	req := validRequest(CommandDepsolve)
	if err := ValidateRequest(req); err == nil {
		t.Fatal("expected error: depsolve with no transactions")
	}
	req.Arguments.Transactions = []Transaction{{}}
	if err := ValidateRequest(req); err == nil {
		t.Fatal("expected error: transaction with no package-specs")
	}
	req.Arguments.Transactions[0].PackageSpecs = []string{"vim"}
	if err := ValidateRequest(req); err != nil {
		t.Errorf("expected valid depsolve request, got %v", err)
	}
}

func TestValidateRequestPropagatesRepoShapeError(t *testing.T) {
	req := validRequest(CommandDump)
	req.Arguments.Repos[0].BaseURL = nil
	req.Arguments.Repos[0].Metalink = "https://example.com/metalink"
	req.Arguments.Repos[0].MirrorList = "https://example.com/mirrorlist"
	if err := ValidateRequest(req); err == nil {
		t.Fatal("expected error: repo sets both metalink and mirrorlist")
	}
}

func TestErrorKindSurfaces(t *testing.T) {
	err := ValidateRequest(nil)
	se, ok := AsError(err)
	if !ok {
		t.Fatal("expected a *Error")
	}
	if se.Kind != KindInvalidRequest {
		t.Errorf("Kind = %q, want %q", se.Kind, KindInvalidRequest)
	}
}
