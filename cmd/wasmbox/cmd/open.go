package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wasmbox/wasmbox/internal/image"
)

var (
	openImage   string
	openWorkdir string
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Run the main entry point of a task image",
	Long:  "Execute the manifest's main entry point against a provisioned working directory. An image without a main entry point opens successfully without running anything.",
	RunE:  runOpen,
}

func init() {
	openCmd.Flags().StringVarP(&openImage, "image", "i", "", "task image (path or oci:// reference)")
	openCmd.Flags().StringVarP(&openWorkdir, "workdir", "w", "", "provisioned working directory")
	_ = openCmd.MarkFlagRequired("image")
	_ = openCmd.MarkFlagRequired("workdir")
}

func runOpen(cmd *cobra.Command, args []string) error {
	return runEntryPoint(cmd.Context(), openImage, openWorkdir,
		func(m *image.Manifest) (*image.EntryPoint, error) {
			return m.Main, nil
		}, nil)
}
