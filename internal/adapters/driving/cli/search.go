package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchDocType string
	searchMeta    []string
	searchCached  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Searches indexed documents by semantic similarity.
The query is embedded the same way documents are, so results depend only
on local computation.`,
	Args:     cobra.ExactArgs(1),
	PreRunE:  bootstrap,
	PostRunE: teardown,
	RunE:     runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchDocType, "type", "", "restrict results to this document type")
	searchCmd.Flags().StringArrayVar(&searchMeta, "meta", nil, "metadata filter as key=value (repeatable)")
	searchCmd.Flags().BoolVar(&searchCached, "cached", false, "serve repeated queries from the response cache")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	filter, err := buildFilter(searchDocType, searchMeta)
	if err != nil {
		return err
	}

	// Cache fast path: only exact-or-fuzzy repeats of unfiltered queries
	// are cacheable, filters change what a result set means.
	useCache := searchCached && filter == nil && cacheService != nil
	if useCache {
		if cached, ok := cacheService.Get(query); ok {
			if results, ok := cached.([]domain.SearchResult); ok {
				return outputResults(cmd, results)
			}
		}
	}

	results, err := retrievalService.Search(cmd.Context(), query, searchLimit, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if useCache {
		cacheService.Put(query, results, 0)
	}

	return outputResults(cmd, results)
}

// buildFilter parses the --type and --meta flags into a filter.
func buildFilter(docType string, meta []string) (*domain.Filter, error) {
	if docType == "" && len(meta) == 0 {
		return nil, nil
	}

	metadata, err := parseMetadata(meta)
	if err != nil {
		return nil, err
	}
	return &domain.Filter{DocType: docType, Metadata: metadata}, nil
}

func outputResults(cmd *cobra.Command, results []domain.SearchResult) error {
	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Document.Title
		if title == "" {
			title = results[i].Document.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		if results[i].Document.Source != "" {
			cmd.Printf("      Source: %s\n", results[i].Document.Source)
		}
		if snippet := firstLine(results[i].Document.Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// firstLine returns the first non-empty line of text, truncated for display.
func firstLine(text string) string {
	const maxLen = 120

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxLen {
			return line[:maxLen] + "..."
		}
		return line
	}
	return ""
}
