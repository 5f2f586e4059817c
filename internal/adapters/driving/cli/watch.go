package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/localrag/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a folder and index dropped documents",
	Long: `Scans the directory, then keeps watching it: created or modified
files are indexed, removed files are deleted from the index. Runs until
interrupted.`,
	Args:     cobra.ExactArgs(1),
	PreRunE:  bootstrap,
	PostRunE: teardown,
	RunE:     runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	dir := args[0]
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.New("watch target must be an existing directory")
	}

	watcher := watch.New(dir, retrievalService)
	err := watcher.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
