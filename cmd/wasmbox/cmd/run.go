package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/wasmbox/wasmbox/internal/image"
	"github.com/wasmbox/wasmbox/internal/registry"
	"github.com/wasmbox/wasmbox/internal/runner"
	"github.com/wasmbox/wasmbox/internal/sandbox"
	"github.com/wasmbox/wasmbox/pkg/imagesource"
	"github.com/wasmbox/wasmbox/pkg/utils"
)

// runEntryPoint is the shared body of "open" and "exec": fetch the image,
// load its deployment manifest, select an entry point, and execute it
// against the provisioned working directory. A nil selection means the
// image has nothing to run, which is a silent success.
func runEntryPoint(ctx context.Context, imageRef, workDir string, selectEP func(*image.Manifest) (*image.EntryPoint, error), args []string) error {
	src, err := imagesource.ParseRef(imageRef, cfg.ImageCacheDir())
	if err != nil {
		return err
	}
	imagePath, _, err := src.Fetch(ctx)
	if err != nil {
		return err
	}

	arc, err := image.OpenArchive(imagePath)
	if err != nil {
		return err
	}
	defer arc.Close()

	m, err := image.LoadManifest(arc, image.PackageManifestName)
	if err != nil {
		return err
	}

	ep, err := selectEP(m)
	if err != nil {
		return err
	}
	if ep == nil {
		slog.Info("image has no entry point to run", "image", src.Info())
		return nil
	}

	eng, err := sandbox.NewProcessEngine(sandbox.EngineConfig{
		Binary:   cfg.EngineBinary,
		BaseDir:  cfg.InstanceDir(),
		MemoryMB: cfg.EngineMemoryMB,
		Timeout:  cfg.EngineTimeout(),
	})
	if err != nil {
		return err
	}

	finishRun, err := startRunRecord(ctx, workDir, ep.ID)
	if err != nil {
		return err
	}

	runErr := runner.Run(eng, arc, workDir, ep, m, args)

	// surface whatever the engine wrote, success or not
	if tailErr := utils.TailUntilIdle(eng.LogPath(), os.Stdout, 500*time.Millisecond, 20*time.Millisecond); tailErr != nil {
		slog.Warn("could not tail engine log", "path", eng.LogPath(), "error", tailErr)
	}

	if err := finishRun(runErr); err != nil {
		return err
	}
	return runErr
}

// startRunRecord opens the registry and inserts a running row. The returned
// function finalizes the row with the run outcome. Recording is disabled by
// an empty registry path.
func startRunRecord(ctx context.Context, workDir, entryPoint string) (func(error) error, error) {
	if cfg.RegistryPath == "" {
		return func(error) error { return nil }, nil
	}

	db, err := registry.Open(ctx, cfg.RegistryPath)
	if err != nil {
		return nil, err
	}

	id, err := utils.NewRunID()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := registry.StartRun(ctx, db, &registry.Run{ID: id, Workdir: workDir, EntryPoint: entryPoint}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return func(runErr error) error {
		defer db.Close()
		status := registry.RunStatusOK
		if runErr != nil {
			status = registry.RunStatusFailed
		}
		return registry.FinishRun(ctx, db, id, status)
	}, nil
}
