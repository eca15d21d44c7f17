// Package fs holds small filesystem helpers shared across the repository.
package fs

import (
	"os"
	"path"
)

// WriteFileAtomic writes data to filePath via a temp file and rename, so a
// reader never observes a partially written file. Atomicity only holds when
// the temp file and target live on the same filesystem, which is guaranteed
// here because the temp file is created next to the target.
func WriteFileAtomic(filePath string, data []byte, perm os.FileMode) error {
	dir := path.Dir(filePath)
	tmp, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		return err
	}

	// fsync the directory so the rename survives power loss
	dfd, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer dfd.Close()
	return dfd.Sync()
}
