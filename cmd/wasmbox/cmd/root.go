package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmbox/wasmbox/internal/config"
)

var (
	configFlag string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wasmbox",
	Short: "wasmbox - run packaged WASM tasks in a sandbox",
	Long: `wasmbox orchestrates execution of packaged, sandboxed WASM tasks: it
validates task images, provisions working directories for their declared
mount points, resolves guest paths to host paths, and runs entry points
through the external sandbox engine.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

		var err error
		cfg, err = config.Load(configFlag)
		return err
	},
}

// Execute runs the root command. It is called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.wasmbox/config.json)")

	rootCmd.AddCommand(validateImageCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(resolvePathCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
