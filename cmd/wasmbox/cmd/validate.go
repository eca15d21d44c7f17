package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmbox/wasmbox/internal/image"
)

var validateImageCmd = &cobra.Command{
	Use:   "validate-image <image>",
	Short: "Validate a task image and print its manifest",
	Long:  "Load the manifest of a task image and print it. Fails when the manifest entry is missing or malformed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateImage,
}

func runValidateImage(cmd *cobra.Command, args []string) error {
	arc, err := image.OpenArchive(args[0])
	if err != nil {
		return err
	}
	defer arc.Close()

	m, err := image.LoadManifest(arc, image.ImageManifestName)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
