// Package imagesource abstracts where task images come from: a local zip
// file or an OCI registry artifact.
package imagesource

import (
	"context"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Source yields a task image as a local file plus its content digest.
type Source interface {
	// Fetch makes the image available on the local filesystem and
	// returns its path and digest.
	Fetch(ctx context.Context) (string, digest.Digest, error)
	Info() string
}

// RegistryScheme prefixes references that are pulled from an OCI registry
// instead of read from disk.
const RegistryScheme = "oci://"

// ParseRef selects a source for an image reference. References starting
// with oci:// are pulled from a registry into cacheDir; everything else is
// treated as a local file path.
func ParseRef(ref, cacheDir string) (Source, error) {
	if rest, ok := strings.CutPrefix(ref, RegistryScheme); ok {
		return NewRegistryArtifact(rest, cacheDir)
	}
	return NewLocalFile(ref), nil
}
