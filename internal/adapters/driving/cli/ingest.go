package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

var (
	ingestText    string
	ingestTitle   string
	ingestDocType string
	ingestID      string
	ingestMeta    []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Add documents to the index",
	Long: `Reads the given files (or --text) and adds them to the index.
Re-ingesting content under an existing ID updates that document in place.`,
	PreRunE:  bootstrap,
	PostRunE: teardown,
	RunE:     runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestText, "text", "", "ingest this literal text instead of files")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (with --text)")
	ingestCmd.Flags().StringVar(&ingestDocType, "type", "", "document type tag")
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document ID (with --text; derived from content when omitted)")
	ingestCmd.Flags().StringArrayVar(&ingestMeta, "meta", nil, "metadata as key=value (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if ingestText == "" && len(args) == 0 {
		return errors.New("nothing to ingest: pass file paths or --text")
	}
	if ingestText != "" && len(args) > 0 {
		return errors.New("--text cannot be combined with file arguments")
	}

	metadata, err := parseMetadata(ingestMeta)
	if err != nil {
		return err
	}

	if ingestText != "" {
		id, err := retrievalService.Ingest(cmd.Context(), &domain.Document{
			ID:       ingestID,
			Title:    ingestTitle,
			DocType:  ingestDocType,
			Content:  ingestText,
			Metadata: metadata,
		})
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("Ingested %s\n", id)
		return nil
	}

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		id, err := retrievalService.Ingest(cmd.Context(), &domain.Document{
			Title:    filepath.Base(path),
			Source:   path,
			DocType:  ingestDocType,
			Content:  string(content),
			Metadata: metadata,
		})
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		cmd.Printf("Ingested %s as %s\n", path, id)
	}
	return nil
}

// parseMetadata converts key=value flag pairs into a metadata map.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --meta %q, expected key=value", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}
