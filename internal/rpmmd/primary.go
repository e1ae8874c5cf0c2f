package rpmmd

import (
	"encoding/xml"
	"strings"
	"time"
)

// The following XML structures mirror repodata/primary.xml, the
// createrepo-style package index: <metadata><package type="rpm">...
// Field shapes are grounded on the same schema other RPM-repository
// tooling in the wild both reads and writes; here we only read.
type primaryMetadata struct {
	XMLName  xml.Name        `xml:"metadata"`
	Packages []primaryPkgXML `xml:"package"`
}

type primaryPkgXML struct {
	Type        string            `xml:"type,attr"`
	Name        string            `xml:"name"`
	Arch        string            `xml:"arch"`
	Version     primaryVersionXML `xml:"version"`
	Checksum    primaryChecksumXML `xml:"checksum"`
	Summary     string            `xml:"summary"`
	Description string            `xml:"description"`
	URL         string            `xml:"url"`
	Time        primaryTimeXML    `xml:"time"`
	Location    primaryLocationXML `xml:"location"`
	Format      primaryFormatXML  `xml:"format"`
}

type primaryVersionXML struct {
	Epoch string `xml:"epoch,attr"`
	Ver   string `xml:"ver,attr"`
	Rel   string `xml:"rel,attr"`
}

type primaryChecksumXML struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type primaryTimeXML struct {
	Build int64 `xml:"build,attr"`
}

type primaryLocationXML struct {
	Href string `xml:"href,attr"`
}

type primaryFormatXML struct {
	License  string             `xml:"license"`
	Provides primaryEntryListXML `xml:"provides"`
	Requires primaryEntryListXML `xml:"requires"`
}

type primaryEntryListXML struct {
	Entries []primaryEntryXML `xml:"entry"`
}

type primaryEntryXML struct {
	Name string `xml:"name,attr"`
}

func parsePrimary(data []byte, repoID string) ([]Package, error) {
	var meta primaryMetadata
	if err := xml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	out := make([]Package, 0, len(meta.Packages))
	for _, x := range meta.Packages {
		p := Package{
			Name:          x.Name,
			Epoch:         x.Version.Epoch,
			Version:       x.Version.Ver,
			Release:       x.Version.Rel,
			Arch:          x.Arch,
			Summary:       x.Summary,
			Description:   x.Description,
			URL:           x.URL,
			License:       x.Format.License,
			BuildTime:     time.Unix(x.Time.Build, 0).UTC(),
			RepoID:        repoID,
			Location:      x.Location.Href,
			ChecksumType:  strings.ToLower(x.Checksum.Type),
			ChecksumValue: x.Checksum.Value,
		}

		for _, e := range x.Format.Provides.Entries {
			p.Provides = append(p.Provides, e.Name)
		}
		for _, e := range x.Format.Requires.Entries {
			p.Requires = append(p.Requires, e.Name)
		}
		if !contains(p.Provides, p.Name) {
			p.Provides = append(p.Provides, p.Name)
		}

		out = append(out, p)
	}

	return out, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
