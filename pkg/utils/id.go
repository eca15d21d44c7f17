package utils

import "github.com/google/uuid"

// NewID returns a fresh random identifier in hyphenated form. Collisions are
// cryptographically negligible, so generated IDs are treated as unique within
// a working directory.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// NewRunID returns a time-ordered identifier for engine instances and
// registry rows, so listings sort by creation time.
func NewRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
