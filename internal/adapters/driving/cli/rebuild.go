package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Re-embed and re-index every stored document",
	Long: `Clears the vector index and regenerates it from the metadata store.
Run this after changing the embedding dimension, or if the index and
store have drifted apart.`,
	PreRunE:  bootstrap,
	PostRunE: teardown,
	RunE:     runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	count, err := retrievalService.Rebuild(cmd.Context())
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	cmd.Printf("Rebuilt index with %d documents\n", count)
	return nil
}
