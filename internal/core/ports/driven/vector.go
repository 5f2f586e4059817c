package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

// VectorBackend provides semantic similarity search operations.
// Three interchangeable implementations exist; the selector probes them
// in preference order at startup and the engine never re-checks per call.
type VectorBackend interface {
	// Tier identifies this implementation.
	Tier() domain.Tier

	// Ping validates the backend is usable. The selector calls this once
	// at startup before committing to a tier.
	Ping(ctx context.Context) error

	// Add inserts or replaces the vector for the given document ID.
	Add(ctx context.Context, id string, embedding []float32, attrs IndexAttributes) error

	// Remove deletes a vector from the index. Removing a missing ID is
	// not an error.
	Remove(ctx context.Context, id string) error

	// Search finds the k nearest neighbours to the query vector,
	// restricted to documents matching the filter before ranking.
	// Results are ordered by descending cosine similarity; ties break
	// by most recent CreatedAt.
	Search(ctx context.Context, query []float32, k int, filter *domain.Filter) ([]VectorHit, error)

	// Clear removes every vector, used before a full rebuild.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// IndexAttributes carries the filterable fields alongside a vector so
// backends can narrow the candidate set without consulting the store.
type IndexAttributes struct {
	// DocType is the document's category tag.
	DocType string

	// Metadata is the document's key-value metadata.
	Metadata map[string]string

	// CreatedAt is the ingestion timestamp, used for tie-breaking.
	CreatedAt time.Time
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched document.
	ID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
