package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wasmbox/wasmbox/internal/image"
	"github.com/wasmbox/wasmbox/internal/registry"
	"github.com/wasmbox/wasmbox/internal/workdir"
	"github.com/wasmbox/wasmbox/pkg/imagesource"
	"github.com/wasmbox/wasmbox/pkg/utils"
)

var (
	deployTaskPackage string
	deployWorkdir     string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Provision a working directory for a task image",
	Long: `Create one host directory per mount point the task declares and write
the mount mapping into the working directory. The working directory must be
fresh: partially provisioned directories are not rolled back on failure.`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVarP(&deployTaskPackage, "task-package", "t", "", "task image (path or oci:// reference)")
	deployCmd.Flags().StringVarP(&deployWorkdir, "workdir", "w", "", "working directory to provision")
	_ = deployCmd.MarkFlagRequired("task-package")
	_ = deployCmd.MarkFlagRequired("workdir")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := imagesource.ParseRef(deployTaskPackage, cfg.ImageCacheDir())
	if err != nil {
		return err
	}
	imagePath, dgst, err := src.Fetch(ctx)
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

	mapping, err := workdir.Provision(m, deployWorkdir)
	if err != nil {
		return err
	}
	slog.Info("deployed task", "image", src.Info(), "digest", dgst, "mounts", len(mapping))

	if cfg.RegistryPath == "" {
		return nil
	}

	db, err := registry.Open(ctx, cfg.RegistryPath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := utils.NewRunID()
	if err != nil {
		return fmt.Errorf("generate deployment id: %w", err)
	}
	return registry.InsertDeployment(ctx, db, &registry.Deployment{
		ID:          id,
		ImageRef:    src.Info(),
		ImageDigest: dgst.String(),
		Workdir:     deployWorkdir,
		MountCount:  len(mapping),
	})
}
