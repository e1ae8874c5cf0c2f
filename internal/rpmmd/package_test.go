package rpmmd

import "testing"

func TestNEVRA(t *testing.T) {
	cases := []struct {
		pkg  Package
		want string
	}{
		{Package{Name: "vim", Version: "9.0", Release: "1.fc40", Arch: "x86_64"}, "vim-9.0-1.fc40.x86_64"},
		{Package{Name: "vim", Epoch: "2", Version: "9.0", Release: "1.fc40", Arch: "x86_64"}, "vim-2:9.0-1.fc40.x86_64"},
		{Package{Name: "vim", Epoch: "0", Version: "9.0", Release: "1.fc40", Arch: "x86_64"}, "vim-9.0-1.fc40.x86_64"},
	}
	for _, c := range cases {
		if got := c.pkg.NEVRA(); got != c.want {
			t.Errorf("NEVRA() = %q, want %q", got, c.want)
		}
	}
}

func TestChecksum(t *testing.T) {
	p := Package{ChecksumType: "sha256", ChecksumValue: "deadbeef"}
	if got, want := p.Checksum().String(), "sha256:deadbeef"; got != want {
		t.Errorf("Checksum() = %q, want %q", got, want)
	}
}

func TestNewerThan(t *testing.T) {
	older := Package{Version: "1.2", Release: "1"}
	newer := Package{Version: "1.10", Release: "1"}
	if !newer.NewerThan(older) {
		t.Error("expected 1.10 to be newer than 1.2 (numeric segment compare, not lexical)")
	}
	if older.NewerThan(newer) {
		t.Error("expected 1.2 to not be newer than 1.10")
	}

	withEpoch := Package{Epoch: "1", Version: "1.0", Release: "1"}
	noEpoch := Package{Version: "99.0", Release: "1"}
	if !withEpoch.NewerThan(noEpoch) {
		t.Error("expected epoch to dominate version comparison")
	}
}

func TestCompareSegmentsRelease(t *testing.T) {
	a := Package{Version: "1.0", Release: "2.fc40"}
	b := Package{Version: "1.0", Release: "10.fc40"}
	if !b.NewerThan(a) {
		t.Error("expected release 10.fc40 to be newer than 2.fc40")
	}
}
