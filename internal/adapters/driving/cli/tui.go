package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui"
	"github.com/custodia-labs/facetag/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for facetag.

Browse and search the document list, open a document's image, analyse it
for faces, save names for the detected faces and update the abstract.

Controls:
  ↑/k, ↓/j   - Navigate
  Enter      - Open / Save
  /          - Search
  g          - Jump to page
  ←/→, [/]   - Previous / next page
  a          - Analyze for faces
  u          - Update abstract
  c          - Clear thumbnail cache
  Esc        - Back / Close
  q          - Quit

With --verbose, diagnostics are written to ~/.facetag/facetag.log.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	rt, err := requireRuntime()
	if err != nil {
		return err
	}

	// The screen belongs to the TUI, so diagnostics go to a file.
	if logger.IsVerbose() {
		if home, err := os.UserHomeDir(); err == nil {
			closer, err := logger.OpenFile(filepath.Join(home, ".facetag", "facetag.log"))
			if err == nil {
				defer closer.Close()
			}
		}
	}

	app, err := tui.NewApp(&tui.Ports{
		Documents: rt.Documents,
		Pages:     rt.Pages,
		Viewer:    rt.Viewer,
		Faces:     rt.Faces,
		Abstract:  rt.Abstract,
		Cache:     rt.Cache,
		Open:      rt.Open,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
