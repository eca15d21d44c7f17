// Package sandbox defines the port to the external WASM execution engine and
// its adapters. The engine is an opaque collaborator: this package stages
// inputs, launches it, and surfaces its failures unchanged, but implements
// none of its isolation semantics.
package sandbox

// MountMode controls how the engine exposes a mounted source to the guest.
type MountMode string

const (
	MountRO MountMode = "ro"
	MountRW MountMode = "rw"
)

// ConfinementRoot is the virtual destination at which the task image itself
// is mounted read-only.
const ConfinementRoot = "@"

// Engine is one sandbox instance. Calls follow a fixed order: configuration
// (WorkDir, SetExecArgs), then Init, then Mount for each source, then one
// Run. Every call may fail and failures abort the whole invocation.
type Engine interface {
	// WorkDir overrides the working directory of the guest program.
	WorkDir(path string) error
	// SetExecArgs passes program arguments through to the guest.
	SetExecArgs(args []string) error
	// Init finishes configuration and prepares the instance for mounts.
	Init() error
	// Mount exposes a host source at a virtual destination inside the
	// sandbox.
	Mount(source, dest string, mode MountMode) error
	// Run executes the module with its companion script. The engine's
	// result value is discarded by callers; only failure matters here.
	Run(script, module []byte) error
}
