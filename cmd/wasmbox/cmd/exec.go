package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wasmbox/wasmbox/internal/image"
)

var (
	execImage   string
	execWorkdir string
)

var execCmd = &cobra.Command{
	Use:   "exec <entry-point> [args...]",
	Short: "Run a named entry point of a task image",
	Long:  "Execute one of the image's named entry points against a provisioned working directory, passing any extra arguments through to the guest program.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExec,
}

func init() {
	execCmd.Flags().StringVarP(&execImage, "image", "i", "", "task image (path or oci:// reference)")
	execCmd.Flags().StringVarP(&execWorkdir, "workdir", "w", "", "provisioned working directory")
	_ = execCmd.MarkFlagRequired("image")
	_ = execCmd.MarkFlagRequired("workdir")
}

func runExec(cmd *cobra.Command, args []string) error {
	return runEntryPoint(cmd.Context(), execImage, execWorkdir,
		func(m *image.Manifest) (*image.EntryPoint, error) {
			return m.FindEntryPoint(args[0])
		}, args[1:])
}
