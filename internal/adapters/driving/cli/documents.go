package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Browse the document store",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of documents",
	Long: `List one page of documents, optionally filtered by a search term.

Pages hold ten documents. --page is checked against the page count
reported for the search, so an out-of-range page is rejected.`,
	Args: cobra.NoArgs,
	RunE: runDocumentsList,
}

var (
	listPage   int
	listSearch string
	listOutput string
)

// documentPageOutput is the --output json|yaml shape of a page.
type documentPageOutput struct {
	Page       int                      `json:"page" yaml:"page"`
	TotalPages int                      `json:"total_pages" yaml:"total_pages"`
	Search     string                   `json:"search,omitempty" yaml:"search,omitempty"`
	Documents  []domain.DocumentSummary `json:"documents" yaml:"documents"`
}

func init() {
	documentsListCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page number")
	documentsListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search term")
	documentsListCmd.Flags().StringVarP(&listOutput, "output", "o", formatTable, "Output format: table, json or yaml")

	documentsCmd.AddCommand(documentsListCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(listOutput, formatTable, formatJSON, formatYAML); err != nil {
		return err
	}
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// The first page establishes the bounds the requested page is checked against.
	if _, err := rt.Pages.SetSearchTerm(ctx, listSearch); err != nil {
		return fmt.Errorf("failed to list documents: %s", domain.UserMessage(err))
	}
	if listPage != 1 {
		if _, err := rt.Pages.GoToPage(ctx, listPage); err != nil {
			nav := rt.Pages.Navigation()
			if domain.IsValidation(err) {
				return fmt.Errorf("page %d does not exist (1-%d)", listPage, nav.TotalPages)
			}
			return fmt.Errorf("failed to list documents: %s", domain.UserMessage(err))
		}
	}

	nav := rt.Pages.Navigation()
	docs := rt.Documents.Documents()

	if listOutput != formatTable {
		return writeStructured(cmd.OutOrStdout(), listOutput, documentPageOutput{
			Page:       nav.Page,
			TotalPages: nav.TotalPages,
			Search:     rt.Pages.SearchTerm(),
			Documents:  docs,
		})
	}

	if len(docs) == 0 {
		cmd.Println(rt.Documents.Message())
		return nil
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{d.ID, d.Title, d.Author, d.Date})
	}
	cmd.Println(renderTable([]string{"ID", "TITLE", "AUTHOR", "DATE"}, rows))
	if nav.Visible {
		cmd.Printf("Page %d of %d\n", nav.Page, nav.TotalPages)
	}
	return nil
}
