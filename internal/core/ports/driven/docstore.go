package driven

import (
	"context"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

// MetadataStore is the durable catalogue of documents.
// Backed by SQLite; embeddings are stored in the same row as the record
// they belong to, so a document and its vector can never drift apart.
type MetadataStore interface {
	// Save stores or updates a document keyed by ID (upsert).
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns documents matching the filter. A nil or zero filter
	// returns every document.
	List(ctx context.Context, filter *domain.Filter) ([]domain.Document, error)

	// Count returns the total number of stored documents.
	Count(ctx context.Context) (int, error)

	// CountByType returns the number of documents per doc type.
	CountByType(ctx context.Context) (map[string]int, error)

	// Close releases the underlying database handle.
	Close() error
}
