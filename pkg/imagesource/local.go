package imagesource

import (
	"context"
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"
)

// LocalFile serves a task image straight from the host filesystem.
type LocalFile struct {
	path string
}

func NewLocalFile(path string) *LocalFile {
	return &LocalFile{path: path}
}

func (s *LocalFile) Info() string {
	return s.path
}

func (s *LocalFile) Fetch(ctx context.Context) (string, digest.Digest, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return "", "", fmt.Errorf("open image %s: %w", s.path, err)
	}
	defer f.Close()

	dgst, err := digest.FromReader(f)
	if err != nil {
		return "", "", fmt.Errorf("digest image %s: %w", s.path, err)
	}

	return s.path, dgst, nil
}
