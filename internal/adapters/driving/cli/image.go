package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Work with document images",
}

var imageFetchCmd = &cobra.Command{
	Use:   "fetch [doc-id]",
	Short: "Download a document's image",
	Long: `Download a document's image and check that it decodes.

Writes to <doc-id>.<format> in the current directory unless --out is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImageFetch,
}

var (
	imageOut  string
	imageOpen bool
)

func init() {
	imageFetchCmd.Flags().StringVarP(&imageOut, "out", "o", "", "Output file")
	imageFetchCmd.Flags().BoolVar(&imageOpen, "open", false, "Open the saved image in the default viewer")

	imageCmd.AddCommand(imageFetchCmd)
	rootCmd.AddCommand(imageCmd)
}

func runImageFetch(cmd *cobra.Command, args []string) error {
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	docID := args[0]

	if _, err := rt.Viewer.Open(cmd.Context(), docID, docID); err != nil {
		return fmt.Errorf("failed to fetch image: %s", domain.UserMessage(err))
	}
	defer rt.Viewer.Close()

	res := rt.Viewer.Display()
	path := imageOut
	if path == "" {
		path = fmt.Sprintf("%s.%s", docID, fileExtension(res.Format))
	}
	if err := os.WriteFile(path, rt.Viewer.ImageBytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	cmd.Printf("Saved %s (%dx%d %s)\n", path, res.Width, res.Height, res.Format)

	if imageOpen && rt.Open != nil {
		if err := rt.Open(path); err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
	}
	return nil
}

func fileExtension(format string) string {
	switch format {
	case "jpeg", "":
		return "jpg"
	default:
		return format
	}
}
