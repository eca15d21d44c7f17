package workdir

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wasmbox/wasmbox/internal/image"
	"github.com/wasmbox/wasmbox/pkg/utils"
)

// Provision allocates one fresh host directory per declared mount point, in
// declaration order, and persists the resulting mapping into the working
// directory.
//
// Directory creation failure aborts immediately; directories already created
// are not rolled back. Callers are expected to provision into a fresh, empty
// working directory per task instance.
func Provision(m *image.Manifest, workdir string) (Mapping, error) {
	logger := slog.Default().With("workdir", workdir)

	mapping := make(Mapping, 0, len(m.MountPoints))
	for _, mp := range m.MountPoints {
		id, err := utils.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate mount id: %w", err)
		}

		if err := os.Mkdir(filepath.Join(workdir, id), 0o755); err != nil {
			return nil, fmt.Errorf("provision mount %s: %w", mp.Path, err)
		}
		logger.Info("provisioned mount directory", "id", id, "path", mp.Path)

		mapping = append(mapping, MappingEntry{HostID: id, Point: mp})
	}

	if err := WriteMapping(workdir, mapping); err != nil {
		return nil, err
	}

	return mapping, nil
}
