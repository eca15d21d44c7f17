package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wasmbox/wasmbox/internal/registry"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent deployments and runs",
	Long:  "List the most recent deployments and entry-point runs recorded in the registry database.",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 20, "maximum rows per section")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if cfg.RegistryPath == "" {
		fmt.Println("registry recording is disabled (empty registry_path)")
		return nil
	}

	ctx := cmd.Context()
	db, err := registry.Open(ctx, cfg.RegistryPath)
	if err != nil {
		return err
	}
	defer db.Close()

	deployments, err := registry.ListDeployments(ctx, db, statusLimit)
	if err != nil {
		return err
	}
	runs, err := registry.ListRuns(ctx, db, statusLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "DEPLOYMENTS")
	fmt.Fprintln(w, "CREATED\tIMAGE\tDIGEST\tWORKDIR\tMOUNTS")
	for _, d := range deployments {
		fmt.Fprintf(w, "%s\t%s\t%.19s\t%s\t%d\n",
			d.CreatedAt.Format("2006-01-02 15:04:05"), d.ImageRef, d.ImageDigest, d.Workdir, d.MountCount)
	}

	fmt.Fprintln(w, "\nRUNS")
	fmt.Fprintln(w, "STARTED\tENTRY\tWORKDIR\tSTATUS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.EntryPoint, r.Workdir, r.Status)
	}

	return w.Flush()
}
