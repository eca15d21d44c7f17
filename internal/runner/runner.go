// Package runner orchestrates one entry-point execution: artifact extraction
// from the image, engine configuration, mounting, and the run itself.
package runner

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/wasmbox/wasmbox/internal/image"
	"github.com/wasmbox/wasmbox/internal/pathsafe"
	"github.com/wasmbox/wasmbox/internal/sandbox"
	"github.com/wasmbox/wasmbox/internal/workdir"
)

// Run executes one entry point of the image against a provisioned working
// directory. "open" and "exec" share this routine; they only differ in which
// entry point was selected upstream.
//
// The engine result value is discarded; any failure along the way aborts the
// invocation and is surfaced unchanged.
func Run(eng sandbox.Engine, arc *image.Archive, workDir string, ep *image.EntryPoint, m *image.Manifest, args []string) error {
	logger := slog.Default().With("entry_point", ep.ID)

	wasmPath, err := pathsafe.Normalize(ep.WasmPath)
	if err != nil {
		return fmt.Errorf("entry point %s: %w", ep.ID, err)
	}
	jsPath := image.JSCompanion(wasmPath)
	logger.Info("extracting artifacts", "wasm", wasmPath, "js", jsPath)

	wasmBytes, err := arc.Bytes(wasmPath)
	if err != nil {
		return err
	}
	jsBytes, err := arc.Bytes(jsPath)
	if err != nil {
		return err
	}

	if m.WorkDir != nil {
		if err := eng.WorkDir(*m.WorkDir); err != nil {
			return err
		}
	}
	if err := eng.SetExecArgs(args); err != nil {
		return err
	}
	if err := eng.Init(); err != nil {
		return err
	}

	if err := eng.Mount(arc.Path(), sandbox.ConfinementRoot, sandbox.MountRO); err != nil {
		return err
	}

	mapping, err := workdir.ReadMapping(workDir)
	if err != nil {
		return err
	}
	for _, entry := range mapping {
		source := filepath.Join(workDir, entry.HostID)
		if err := eng.Mount(source, entry.Point.Path, sandbox.MountRW); err != nil {
			return err
		}
	}

	if err := eng.Run(jsBytes, wasmBytes); err != nil {
		return err
	}

	logger.Info("run finished")
	return nil
}
