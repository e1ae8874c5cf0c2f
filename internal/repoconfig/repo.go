// Package repoconfig materializes repository configuration from a mix of
// JSON-supplied descriptors and, optionally, the on-disk repo files of an
// image root filesystem. It owns variable substitution, TLS/GPG path
// rewriting, and GPG key acquisition across the inline/file/http(s) trust
// paths.
package repoconfig

import (
	"github.com/pkg/errors"
)

// RepoConfig is the normalized shape of a repository, whether it came from
// the request's arguments.repos or from an on-disk *.repo file under
// root_dir. The same struct also serves as the wire shape for ResponseRepo:
// after GPG materialization, GPGKeys holds key text instead of URLs/paths.
type RepoConfig struct {
	ID             string   `json:"id" ini:"-"`
	Name           string   `json:"name,omitempty" ini:"name,omitempty"`
	BaseURL        []string `json:"baseurl,omitempty" ini:"-"`
	Metalink       string   `json:"metalink,omitempty" ini:"metalink,omitempty"`
	MirrorList     string   `json:"mirrorlist,omitempty" ini:"mirrorlist,omitempty"`
	SSLVerify      *bool    `json:"sslverify,omitempty" ini:"-"`
	SSLCACert      string   `json:"sslcacert,omitempty" ini:"sslcacert,omitempty"`
	SSLClientKey   string   `json:"sslclientkey,omitempty" ini:"sslclientkey,omitempty"`
	SSLClientCert  string   `json:"sslclientcert,omitempty" ini:"sslclientcert,omitempty"`
	GPGCheck       *bool    `json:"gpgcheck,omitempty" ini:"-"`
	RepoGPGCheck   *bool    `json:"repo_gpgcheck,omitempty" ini:"-"`
	GPGKey         string   `json:"gpgkey,omitempty" ini:"gpgkey,omitempty"`
	GPGKeys        []string `json:"gpgkeys,omitempty" ini:"-"`
	MetadataExpire string   `json:"metadata_expire,omitempty" ini:"metadata_expire,omitempty"`
	ModuleHotfixes *bool    `json:"module_hotfixes,omitempty" ini:"-"`

	// RequestSourced is true for repos that arrived via arguments.repos
	// (Phase A). It is not part of the wire shape: it decides whether
	// root_dir path-rewriting and on-disk variable substitution apply to
	// this repo (Phase B only).
	RequestSourced bool `json:"-" ini:"-"`
}

// DefaultMetadataExpire is used whenever a repo does not specify one. A
// short window deliberately trades a small per-invocation revalidation cost
// for cache correctness when metadata changes between builds.
const DefaultMetadataExpire = "20s"

// FillDefaults applies the documented zero-value defaults. It must run
// after JSON unmarshaling (or repo-file parsing) and before validation.
func (r *RepoConfig) FillDefaults() {
	if r.SSLVerify == nil {
		v := true
		r.SSLVerify = &v
	}
	if r.MetadataExpire == "" {
		r.MetadataExpire = DefaultMetadataExpire
	}
}

// ValidateShape enforces the "exactly one of baseurl/metalink/mirrorlist"
// rule. It is structural only; it never touches the filesystem or network.
func (r *RepoConfig) ValidateShape() error {
	if r.ID == "" {
		return errors.New("repo has no 'id'")
	}

	n := 0
	if len(r.BaseURL) > 0 {
		n++
	}
	if r.Metalink != "" {
		n++
	}
	if r.MirrorList != "" {
		n++
	}
	if n != 1 {
		return errors.New("exactly one of 'baseurl', 'metalink', 'mirrorlist' must be set")
	}
	return nil
}

// AllGPGKeyRefs returns the full list of key references (URL or inline PEM
// block) this repo declares, combining the singular GPGKey field with the
// GPGKeys list in the order a dnf.conf-style consumer would see them.
func (r *RepoConfig) AllGPGKeyRefs() []string {
	var refs []string
	if r.GPGKey != "" {
		refs = append(refs, r.GPGKey)
	}
	refs = append(refs, r.GPGKeys...)
	return refs
}
