package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:      "delete [id...]",
	Short:    "Remove documents from the index",
	Args:     cobra.MinimumNArgs(1),
	PreRunE:  bootstrap,
	PostRunE: teardown,
	RunE:     runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	for _, id := range args {
		if err := retrievalService.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting %s: %w", id, err)
		}
		cmd.Printf("Deleted %s\n", id)
	}
	return nil
}
