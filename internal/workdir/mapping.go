// Package workdir manages the working directory of one task instance: the
// provisioned host mount directories and the persisted mapping that connects
// them to the virtual mount points the guest declared.
//
// The mapping file is the only state shared between command invocations.
// Provisioning writes it once; resolution and execution read it later,
// possibly from different processes. There is no locking over the file:
// callers must provision exactly once per working directory before anything
// reads it.
package workdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wasmbox/wasmbox/internal/image"
	"github.com/wasmbox/wasmbox/pkg/fs"
)

// MappingFileName is the fixed name of the mapping file inside a working
// directory.
const MappingFileName = "mounts.json"

// ErrMalformedMapping is returned when the mapping file exists but cannot be
// decoded.
var ErrMalformedMapping = errors.New("malformed mount mapping")

// MappingEntry pairs a generated host directory ID with the mount point it
// was provisioned for. It serializes as a two-element JSON array so the
// sequence round-trips exactly, in order, through the mapping file.
type MappingEntry struct {
	HostID string
	Point  image.MountPoint
}

// Mapping is the ordered sequence of provisioned mounts. Order equals the
// manifest's declaration order and is semantically significant: resolution
// tries entries first to last.
type Mapping []MappingEntry

func (e MappingEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.HostID, e.Point})
}

func (e *MappingEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.HostID); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Point)
}

// MappingPath returns the mapping file location for a working directory.
func MappingPath(workdir string) string {
	return filepath.Join(workdir, MappingFileName)
}

// WriteMapping persists the mapping into the working directory, replacing
// any prior content.
func WriteMapping(workdir string, m Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mount mapping: %w", err)
	}
	if err := fs.WriteFileAtomic(MappingPath(workdir), data, 0o644); err != nil {
		return fmt.Errorf("write mount mapping: %w", err)
	}
	return nil
}

// ReadMapping loads the persisted mapping from the working directory.
func ReadMapping(workdir string) (Mapping, error) {
	data, err := os.ReadFile(MappingPath(workdir))
	if err != nil {
		return nil, fmt.Errorf("read mount mapping: %w", err)
	}

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMapping, err)
	}
	return m, nil
}
