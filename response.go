package dnfjson

import (
	"time"

	"github.com/ygalblum/osbuild/internal/repoconfig"
	"github.com/ygalblum/osbuild/internal/rpmmd"
)

// PackageDescriptor is the full package record returned by dump and
// search: name, summary, description, url, repo_id, epoch, version,
// release, arch, buildtime, license.
type PackageDescriptor struct {
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	URL         string `json:"url"`
	RepoID      string `json:"repo_id"`
	Epoch       string `json:"epoch,omitempty"`
	Version     string `json:"version"`
	Release     string `json:"release"`
	Arch        string `json:"arch"`
	BuildTime   string `json:"buildtime"`
	License     string `json:"license"`
}

func newPackageDescriptor(p rpmmd.Package) PackageDescriptor {
	return PackageDescriptor{
		Name:        p.Name,
		Summary:     p.Summary,
		Description: p.Description,
		URL:         p.URL,
		RepoID:      p.RepoID,
		Epoch:       p.Epoch,
		Version:     p.Version,
		Release:     p.Release,
		Arch:        p.Arch,
		BuildTime:   p.BuildTime.UTC().Format(time.RFC3339),
		License:     p.License,
	}
}

// ResolvedPackage is one entry of a depsolve response's packages list.
type ResolvedPackage struct {
	Name           string `json:"name"`
	Epoch          string `json:"epoch,omitempty"`
	Version        string `json:"version"`
	Release        string `json:"release"`
	Arch           string `json:"arch"`
	RepoID         string `json:"repo_id"`
	Path           string `json:"path"`
	RemoteLocation string `json:"remote_location"`
	Checksum       string `json:"checksum"`
}

func newResolvedPackage(p rpmmd.Package, remoteLocation string) ResolvedPackage {
	return ResolvedPackage{
		Name:           p.Name,
		Epoch:          p.Epoch,
		Version:        p.Version,
		Release:        p.Release,
		Arch:           p.Arch,
		RepoID:         p.RepoID,
		Path:           p.Location,
		RemoteLocation: remoteLocation,
		Checksum:       p.Checksum().String(),
	}
}

// DepsolveResponse is the wire shape for a successful depsolve command.
// Every ResolvedPackage's RepoID is guaranteed to be a key of Repos.
type DepsolveResponse struct {
	Packages []ResolvedPackage                  `json:"packages"`
	Repos    map[string]repoconfig.RepoConfig `json:"repos"`
}

// ErrorResponse is the tagged error object written to stdout on failure.
type ErrorResponse struct {
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// NewErrorResponse converts a tagged Error into its wire shape.
func NewErrorResponse(err *Error) ErrorResponse {
	return ErrorResponse{Kind: err.Kind, Reason: err.Reason}
}
