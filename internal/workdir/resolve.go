package workdir

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/wasmbox/wasmbox/internal/pathsafe"
)

// Resolution is the outcome of resolving a container-side destination to a
// host path. An unresolved destination is a normal result, not an error.
type Resolution struct {
	Resolved bool
	HostPath string
}

// The wire encoding mirrors the persisted protocol: a resolved destination
// serializes as {"resolvedPath": "..."}, an unresolved one as the bare
// string "unresolvedPath".
func (r Resolution) MarshalJSON() ([]byte, error) {
	if !r.Resolved {
		return json.Marshal("unresolvedPath")
	}
	return json.Marshal(map[string]string{"resolvedPath": r.HostPath})
}

func (r *Resolution) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != "unresolvedPath" {
			return fmt.Errorf("unknown resolution variant %q", tag)
		}
		*r = Resolution{}
		return nil
	}

	var obj struct {
		ResolvedPath *string `json:"resolvedPath"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.ResolvedPath == nil {
		return fmt.Errorf("resolution object lacks resolvedPath")
	}
	*r = Resolution{Resolved: true, HostPath: *obj.ResolvedPath}
	return nil
}

// Resolve maps a container-relative destination to its host location. The
// mapping entries are tried in persisted order and the first mount whose
// normalized virtual path is a component-wise prefix of the normalized
// destination wins, even when a later mount would match more components.
func Resolve(workdir string, mapping Mapping, destination string) (Resolution, error) {
	dest, err := pathsafe.Normalize(destination)
	if err != nil {
		return Resolution{}, err
	}

	for _, entry := range mapping {
		mount, err := pathsafe.Normalize(entry.Point.Path)
		if err != nil {
			return Resolution{}, err
		}
		if !pathsafe.HasPrefix(dest, mount) {
			continue
		}

		parts := append([]string{workdir, entry.HostID}, pathsafe.TrimPrefix(dest, mount)...)
		return Resolution{Resolved: true, HostPath: filepath.Join(parts...)}, nil
	}

	return Resolution{}, nil
}
