package dnfjson

import (
	"testing"

	"github.com/ygalblum/osbuild/internal/rpmmd"
)

func TestMatchPatternExact(t *testing.T) {
	if !matchPattern("vim", "vim") {
		t.Error("expected exact match")
	}
	if matchPattern("vim", "vim-enhanced") {
		t.Error("expected exact pattern to not match a longer name")
	}
}

func TestMatchPatternSubstring(t *testing.T) {
	if !matchPattern("*vim*", "vim-enhanced") {
		t.Error("expected substring match")
	}
	if matchPattern("*vim*", "emacs") {
		t.Error("expected no substring match")
	}
}

func TestMatchPatternGlob(t *testing.T) {
	if !matchPattern("vim-*", "vim-enhanced") {
		t.Error("expected glob prefix match")
	}
	if matchPattern("vim-*", "emacs") {
		t.Error("expected no glob match")
	}
}

func TestMatchSpecByName(t *testing.T) {
	sack := rpmmd.NewSack(nil)
	sack.LoadFixture([]rpmmd.Package{
		{Name: "vim", Version: "9.0", Release: "1", Arch: "x86_64"},
	})
	got := matchSpec(sack, "vim")
	if len(got) != 1 {
		t.Fatalf("matchSpec(vim) = %v, want one match", got)
	}
}

func TestMatchSpecByNEVRA(t *testing.T) {
	sack := rpmmd.NewSack(nil)
	sack.LoadFixture([]rpmmd.Package{
		{Name: "vim", Version: "9.0", Release: "1", Arch: "x86_64"},
	})
	got := matchSpec(sack, "vim-9.0-1.x86_64")
	if len(got) != 1 {
		t.Fatalf("matchSpec(vim-9.0-1.x86_64) = %v, want one match", got)
	}
}

func TestMatchSpecGlob(t *testing.T) {
	sack := rpmmd.NewSack(nil)
	sack.LoadFixture([]rpmmd.Package{
		{Name: "vim-minimal", Version: "9.0", Release: "1", Arch: "x86_64"},
		{Name: "vim-enhanced", Version: "9.0", Release: "1", Arch: "x86_64"},
		{Name: "emacs", Version: "1.0", Release: "1", Arch: "x86_64"},
	})
	got := matchSpec(sack, "vim-*")
	if len(got) != 2 {
		t.Fatalf("matchSpec(vim-*) = %v, want two matches", got)
	}
}

func TestMatchSpecNoMatch(t *testing.T) {
	sack := rpmmd.NewSack(nil)
	if got := matchSpec(sack, "missing"); len(got) != 0 {
		t.Errorf("matchSpec(missing) = %v, want none", got)
	}
}
