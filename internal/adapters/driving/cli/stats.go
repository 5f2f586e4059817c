package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:      "stats",
	Short:    "Show index statistics",
	PreRunE:  bootstrap,
	PostRunE: teardown,
	RunE:     runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents:     %d\n", stats.TotalDocuments)
	cmd.Printf("Active tier:   %s (%s)\n", stats.ActiveTier, stats.ActiveTier.Description())
	cmd.Printf("Storage path:  %s\n", stats.StoragePath)

	if len(stats.DocumentTypes) > 0 {
		cmd.Println("By type:")

		types := make([]string, 0, len(stats.DocumentTypes))
		for docType := range stats.DocumentTypes {
			types = append(types, docType)
		}
		sort.Strings(types)

		for _, docType := range types {
			name := docType
			if name == "" {
				name = "(untyped)"
			}
			cmd.Printf("  %-20s %d\n", name, stats.DocumentTypes[docType])
		}
	}

	return nil
}
