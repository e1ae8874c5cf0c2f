package repoconfig

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// InlineKeyHeader is the literal prefix that identifies a gpgkeys entry as
// an inline armored PEM block rather than a URL.
const InlineKeyHeader = "-----BEGIN PGP PUBLIC KEY BLOCK-----"

// IsInlineKey probes for the armored PEM header, ignoring leading
// whitespace. Inline-detection happens before any URL-scheme handling,
// matching the source's documented (and preserved) asymmetry.
func IsInlineKey(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), InlineKeyHeader)
}

// GPGKeyError is returned by ResolveKeyText; callers classify it as
// KindGPGKeyReadError.
type GPGKeyError struct {
	Ref string
	Err error
}

func (e *GPGKeyError) Error() string {
	return "failed to read gpgkey " + e.Ref + ": " + e.Err.Error()
}

func (e *GPGKeyError) Unwrap() error { return e.Err }

// Materializer writes inline keys to disk for the sack and reads key text
// back out (from disk or over HTTP) for the response.
type Materializer struct {
	// PersistDir is the per-request scratch directory. Inline keys are
	// written under <PersistDir>/gpgkeys/.
	PersistDir string
	// RootDir is the image root, if any. It is only applied when reading
	// file:// keys belonging to a repo that is not request-sourced.
	RootDir string
	Client  *retryablehttp.Client
}

// NewMaterializer builds a Materializer with a retrying HTTP client
// suitable for fetching gpgkeys and metadata over potentially flaky
// mirrors. Retries apply only to transport errors and 5xx responses; 4xx
// responses are treated as final. When proxy is non-empty, every gpgkey
// fetch is routed through it, matching the request's proxy field.
func NewMaterializer(persistDir, rootDir, proxy string) (*Materializer, error) {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err == nil && resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, errors.Wrap(err, "parsing proxy URL")
		}
		client.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return &Materializer{PersistDir: persistDir, RootDir: rootDir, Client: client}, nil
}

// PrepareInline writes every inline PEM entry in repos to a fresh file
// under <PersistDir>/gpgkeys/ and replaces it with the file:// URI that
// points at it; URL entries pass through unchanged. It returns a new slice
// (the input is not mutated) with GPGKey folded into GPGKeys so downstream
// code has a single list to walk.
func (m *Materializer) PrepareInline(repos []RepoConfig) ([]RepoConfig, error) {
	out := make([]RepoConfig, len(repos))
	var keyDir string

	for i, r := range repos {
		refs := r.AllGPGKeyRefs()
		r.GPGKey = ""
		r.GPGKeys = nil

		for _, ref := range refs {
			if !IsInlineKey(ref) {
				r.GPGKeys = append(r.GPGKeys, ref)
				continue
			}

			if keyDir == "" {
				keyDir = filepath.Join(m.PersistDir, "gpgkeys")
				if err := os.MkdirAll(keyDir, 0o700); err != nil {
					return nil, errors.Wrap(err, "creating gpgkeys dir")
				}
			}

			name := uuid.NewString() + ".pem"
			path := filepath.Join(keyDir, name)
			if err := os.WriteFile(path, []byte(ref), 0o600); err != nil {
				return nil, errors.Wrapf(err, "writing inline gpgkey for repo %q", r.ID)
			}
			r.GPGKeys = append(r.GPGKeys, "file://"+path)
		}

		out[i] = r
	}

	return out, nil
}

// ResolveKeyText dereferences every key reference on repo into key text,
// for inclusion in the response's ResponseRepo.GPGKeys. The returned slice
// always contains key bodies, never URLs or filesystem paths.
func (m *Materializer) ResolveKeyText(repo RepoConfig) ([]string, error) {
	refs := repo.AllGPGKeyRefs()
	texts := make([]string, 0, len(refs))

	for _, ref := range refs {
		if IsInlineKey(ref) {
			texts = append(texts, ref)
			continue
		}

		text, err := m.readKeyRef(ref, repo.RequestSourced)
		if err != nil {
			return nil, &GPGKeyError{Ref: ref, Err: err}
		}
		texts = append(texts, text)
	}

	return texts, nil
}

func (m *Materializer) readKeyRef(ref string, requestSourced bool) (string, error) {
	switch {
	case strings.HasPrefix(ref, "file://"):
		path := strings.TrimPrefix(ref, "file://")
		if !requestSourced && m.RootDir != "" {
			path = filepath.Join(m.RootDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		resp, err := m.Client.Get(ref)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", errors.Errorf("unexpected status %s fetching %s", resp.Status, ref)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		return "", errors.Errorf("unsupported gpgkey scheme in %q", ref)
	}
}
