package rpmmd

import "encoding/xml"

// repomd is the repodata/repomd.xml document: an index of the other
// metadata files (primary, filelists, other, ...) this repo publishes.
// Field shapes mirror the schema produced by repo generators in the wild
// (see e.g. createrepo_c's output), read here instead of written.
type repomd struct {
	XMLName xml.Name     `xml:"repomd"`
	Data    []repomdData `xml:"data"`
}

type repomdData struct {
	Type     string         `xml:"type,attr"`
	Checksum repomdChecksum `xml:"checksum"`
	Location repomdLocation `xml:"location"`
}

type repomdChecksum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type repomdLocation struct {
	Href string `xml:"href,attr"`
}

// primaryLocation returns the repo-relative href of the "primary" metadata
// entry, or "" if the repo doesn't publish one.
func (r repomd) primaryLocation() string {
	for _, d := range r.Data {
		if d.Type == "primary" {
			return d.Location.Href
		}
	}
	return ""
}

func parseRepomd(data []byte) (repomd, error) {
	var r repomd
	if err := xml.Unmarshal(data, &r); err != nil {
		return repomd{}, err
	}
	return r, nil
}
