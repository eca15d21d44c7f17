package imagesource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/opencontainers/go-digest"
)

// RegistryArtifact pulls a task image published to an OCI registry as a
// single-layer artifact whose layer content is the zip image. Pulled images
// are cached under cacheDir keyed by the layer digest, so repeated fetches
// of the same artifact hit the local copy.
type RegistryArtifact struct {
	ref      name.Reference
	cacheDir string
}

// NewRegistryArtifact parses the reference and prepares a registry source.
// Bare references default to docker.io.
func NewRegistryArtifact(ref, cacheDir string) (*RegistryArtifact, error) {
	parsed, err := name.ParseReference(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid image reference %s: %w", ref, err)
	}
	return &RegistryArtifact{ref: parsed, cacheDir: cacheDir}, nil
}

func (s *RegistryArtifact) Info() string {
	return RegistryScheme + s.ref.String()
}

func (s *RegistryArtifact) Fetch(ctx context.Context) (string, digest.Digest, error) {
	img, err := remote.Image(s.ref, remote.WithContext(ctx))
	if err != nil {
		return "", "", fmt.Errorf("fetch artifact %s: %w", s.ref, err)
	}

	layers, err := img.Layers()
	if err != nil {
		return "", "", fmt.Errorf("artifact layers %s: %w", s.ref, err)
	}
	if len(layers) != 1 {
		return "", "", fmt.Errorf("artifact %s has %d layers, want exactly one", s.ref, len(layers))
	}

	layerDigest, err := layers[0].Digest()
	if err != nil {
		return "", "", fmt.Errorf("artifact layer digest %s: %w", s.ref, err)
	}
	dgst := digest.NewDigestFromHex(layerDigest.Algorithm, layerDigest.Hex)

	cached := filepath.Join(s.cacheDir, dgst.Hex()+".zip")
	if _, err := os.Stat(cached); err == nil {
		return cached, dgst, nil
	}

	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create image cache dir: %w", err)
	}

	rc, err := layers[0].Uncompressed()
	if err != nil {
		return "", "", fmt.Errorf("read artifact layer %s: %w", s.ref, err)
	}
	defer rc.Close()

	if err := writeStreamAtomic(cached, rc); err != nil {
		return "", "", fmt.Errorf("cache artifact %s: %w", s.ref, err)
	}

	return cached, dgst, nil
}

// writeStreamAtomic lands the layer in the cache via rename so a partially
// pulled image is never visible under its final name.
func writeStreamAtomic(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "*.pull")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
