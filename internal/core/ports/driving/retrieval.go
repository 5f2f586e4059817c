package driving

import (
	"context"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

// RetrievalService is the programmatic contract consumed by callers
// embedding the engine (chat orchestrator, CLI, MCP server).
//
// Backend unavailability is never surfaced here: the engine degrades to a
// simpler tier at startup instead. Callers see successful results, typed
// validation errors, or storage failures on write paths.
type RetrievalService interface {
	// Ingest embeds the document text, persists the record and indexes
	// the vector. Returns the document ID (derived from content when the
	// caller leaves it empty). Ingesting an existing ID is an update: the
	// old vector is removed before the new one is added.
	//
	// Returns domain.ErrEmptyContent when the text is unembeddable.
	Ingest(ctx context.Context, doc *domain.Document) (string, error)

	// Search embeds the query identically to ingestion, runs a top-k
	// similarity search on the active tier and joins the hits back to
	// full document records. Returns at most k results; fewer if the
	// filtered corpus is smaller.
	//
	// Returns domain.ErrInvalidInput for an empty query or k <= 0.
	Search(ctx context.Context, query string, k int, filter *domain.Filter) ([]domain.SearchResult, error)

	// Delete removes a document from the metadata store and the vector
	// index. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Rebuild clears the vector index and re-embeds and re-indexes every
	// stored document. Returns the number of documents indexed.
	Rebuild(ctx context.Context) (int, error)

	// Stats reports document counts and the active backend tier.
	Stats(ctx context.Context) (domain.Stats, error)
}
