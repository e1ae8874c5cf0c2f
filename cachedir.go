package dnfjson

import (
	"os"
	"path/filepath"
)

// overwriteCacheDirEnv, when set, locks every request onto
// "<override>/<arch>" and overrides whatever cachedir the request carries.
// It exists so a single long-lived host can pin every subprocess invocation
// at one cache root regardless of what individual callers pass in.
const overwriteCacheDirEnv = "OVERWRITE_CACHE_DIR"

// ResolveCacheDir picks the cache directory a Solver run will use: the
// OVERWRITE_CACHE_DIR environment variable takes precedence over the
// request's own cachedir, scoped per arch. If neither is set, it's an error.
func ResolveCacheDir(req *Request) (string, error) {
	if override := os.Getenv(overwriteCacheDirEnv); override != "" {
		return filepath.Join(override, req.Arch), nil
	}
	if req.CacheDir == "" {
		return "", NewError(KindError, "No cache dir set")
	}
	return req.CacheDir, nil
}
