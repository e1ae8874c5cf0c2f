// Package rpmmd implements the metadata sack boundary: loading repository
// metadata (repomd.xml + primary.xml.gz) into an in-memory, queryable
// package index. The spec pins only the sack's observable contract
// (dump/search/depsolve over it); this is one concrete implementation of
// that contract.
package rpmmd

import (
	"fmt"
	"time"

	digest "github.com/opencontainers/go-digest"
)

// Package is the in-memory NEVRA + dependency record for one RPM entry in
// a repo's primary.xml.
type Package struct {
	Name    string
	Epoch   string
	Version string
	Release string
	Arch    string

	Summary     string
	Description string
	URL         string
	License     string
	BuildTime   time.Time

	RepoID   string
	Location string // repo-relative path, e.g. "Packages/foo-1-1.x86_64.rpm"

	ChecksumType  string
	ChecksumValue string

	Provides []string
	Requires []string
}

// NEVRA renders the canonical "name-epoch:version-release.arch" identity
// when the epoch is set and non-zero, or "name-version-release.arch"
// otherwise (an empty or "0" epoch) — dnf
// accepts either form when matching package-specs.
func (p Package) NEVRA() string {
	if p.Epoch != "" && p.Epoch != "0" {
		return fmt.Sprintf("%s-%s:%s-%s.%s", p.Name, p.Epoch, p.Version, p.Release, p.Arch)
	}
	return fmt.Sprintf("%s-%s-%s.%s", p.Name, p.Version, p.Release, p.Arch)
}

// Checksum renders the "<algo>:<hex>" form required by ResolvedPackage.
// ChecksumType is used as is; parsePrimary lowercases it when it reads
// primary.xml.
func (p Package) Checksum() digest.Digest {
	return digest.NewDigestFromEncoded(digest.Algorithm(p.ChecksumType), p.ChecksumValue)
}

// NewerThan orders packages by NEVR (ignoring arch) for "latest" reduction:
// epoch, then version, then release, each compared as dot-separated
// numeric-aware segments the way rpm does.
func (p Package) NewerThan(o Package) bool {
	if c := compareSegments(p.Epoch, o.Epoch); c != 0 {
		return c > 0
	}
	if c := compareSegments(p.Version, o.Version); c != 0 {
		return c > 0
	}
	return compareSegments(p.Release, o.Release) > 0
}

// compareSegments is a simplified rpmvercmp: split on '.' and '-' and compare
// numeric segments numerically, falling back to lexical comparison for
// non-numeric segments.
func compareSegments(a, b string) int {
	as, bs := splitVer(a), splitVer(b)
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv string
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av == bv {
			continue
		}
		an, aok := parseUint(av)
		bn, bok := parseUint(bv)
		if aok && bok {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}
		if av < bv {
			return -1
		}
		return 1
	}
	return 0
}

func splitVer(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == '.' || r == '-' {
			out = append(out, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	out = append(out, cur)
	return out
}

func parseUint(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	return n, true
}
