package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the document store's thumbnail cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the thumbnail cache",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheYes bool

func init() {
	cacheClearCmd.Flags().BoolVarP(&cacheYes, "yes", "y", false, "Do not ask for confirmation")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	confirm, err := confirmer(cmd, cacheYes)
	if err != nil {
		return err
	}

	msg, err := rt.Cache.Clear(cmd.Context(), confirm)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			cmd.Println("Cancelled.")
			return nil
		}
		return fmt.Errorf("failed to clear cache: %s", domain.UserMessage(err))
	}
	cmd.Println(msg)
	return nil
}
