package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmbox/wasmbox/internal/workdir"
)

var (
	resolveImage   string
	resolveWorkdir string
)

var resolvePathCmd = &cobra.Command{
	Use:   "resolve-path <destination>",
	Short: "Resolve a guest destination path to its host location",
	Long: `Map a container-side destination path to the host directory backing it,
using the mount mapping persisted at deploy time. Mounts are tried in
declaration order and the first prefix match wins. A destination outside
every mount prints the unresolved result; that is not a failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolvePath,
}

func init() {
	resolvePathCmd.Flags().StringVarP(&resolveImage, "image", "i", "", "task image the working directory was provisioned for")
	resolvePathCmd.Flags().StringVarP(&resolveWorkdir, "workdir", "w", "", "provisioned working directory")
	_ = resolvePathCmd.MarkFlagRequired("workdir")
}

func runResolvePath(cmd *cobra.Command, args []string) error {
	mapping, err := workdir.ReadMapping(resolveWorkdir)
	if err != nil {
		return err
	}

	res, err := workdir.Resolve(resolveWorkdir, mapping, args[0])
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode resolution: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
