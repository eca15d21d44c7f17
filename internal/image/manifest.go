package image

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Well-known manifest entry names inside a task image. Both use the same
// schema; which one a command reads depends on its intent.
const (
	// PackageManifestName is read when deploying or executing a task.
	PackageManifestName = "task-package.json"
	// ImageManifestName is read when validating an image.
	ImageManifestName = "manifest.json"
)

// ErrInvalidEntryPoint is returned when an entry point ID has no match in
// the manifest.
var ErrInvalidEntryPoint = errors.New("invalid entry point")

// Manifest describes a task image. It is immutable after load.
type Manifest struct {
	// WorkDir overrides the sandbox working directory when set.
	WorkDir *string `json:"work_dir,omitempty"`
	// MountPoints lists the virtual paths the guest expects writable
	// access to, in declaration order. The order is load-bearing: mount
	// resolution tries them first to last.
	MountPoints []MountPoint `json:"mount_points"`
	// Main is the default entry point run by "open", if any.
	Main *EntryPoint `json:"main,omitempty"`
	// EntryPoints lists the named runnable units of the image.
	EntryPoints []EntryPoint `json:"entry_points"`
}

// MountPoint is a virtual path declared by the task author.
type MountPoint struct {
	Path string `json:"path"`
}

// EntryPoint identifies one runnable unit inside the image.
type EntryPoint struct {
	ID string `json:"id"`
	// WasmPath is the in-archive path of the compiled module. The JS
	// companion lives next to it with a .js extension.
	WasmPath string `json:"wasm_path"`
}

// JSCompanion derives the companion script path from a module path by
// swapping the file extension for .js.
func JSCompanion(wasmPath string) string {
	if i := strings.LastIndexByte(wasmPath, '.'); i >= 0 && !strings.ContainsRune(wasmPath[i:], '/') {
		return wasmPath[:i] + ".js"
	}
	return wasmPath + ".js"
}

// LoadManifest reads and decodes the named manifest entry from the archive.
// A missing entry surfaces as ErrEntryNotFound, a present but undecodable
// one as ErrMalformedManifest.
func LoadManifest(a *Archive, entryName string) (*Manifest, error) {
	data, err := a.Bytes(entryName)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedManifest, entryName, err)
	}
	return &m, nil
}

// FindEntryPoint selects an entry point by exact, case-sensitive ID match.
func (m *Manifest) FindEntryPoint(id string) (*EntryPoint, error) {
	for i := range m.EntryPoints {
		if m.EntryPoints[i].ID == id {
			return &m.EntryPoints[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidEntryPoint, id)
}
