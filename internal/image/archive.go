// Package image reads packaged task images: zip archives bundling a JSON
// manifest, compiled WASM entry points with their JS companions, and any
// supporting resources.
package image

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrEntryNotFound is returned when the archive lacks a named entry.
	ErrEntryNotFound = errors.New("archive entry not found")
	// ErrMalformedManifest is returned when a manifest entry exists but
	// cannot be decoded.
	ErrMalformedManifest = errors.New("malformed manifest")
)

// Archive is a read handle on a task image. Entries are looked up by their
// exact in-archive name.
type Archive struct {
	path   string
	reader *zip.ReadCloser
}

// OpenArchive opens the task image at path. The caller must Close it.
func OpenArchive(path string) (*Archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return &Archive{path: path, reader: r}, nil
}

// Path returns the host path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Open returns a reader for the named entry.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	for _, f := range a.reader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open entry %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}

// Bytes reads the full content of the named entry.
func (a *Archive) Bytes(name string) ([]byte, error) {
	rc, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}
	return data, nil
}

// Close releases the underlying file handle.
func (a *Archive) Close() error {
	return a.reader.Close()
}
