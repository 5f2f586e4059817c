//go:build !cgo

package hnsw

import (
	"context"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorBackend = (*Index)(nil)

// Index provides vector similarity search using HNSWlib.
// This is a stub for builds without CGO: Ping reports the tier as
// unavailable so the selector falls through to brute force.
type Index struct {
	path      string
	dimension int
}

// New creates an HNSW index stub.
func New(path string, dimension int) (*Index, error) {
	return &Index{
		path:      path,
		dimension: dimension,
	}, nil
}

// Tier identifies this implementation.
func (idx *Index) Tier() domain.Tier {
	return domain.TierHNSW
}

// Ping reports the tier as unavailable in non-CGO builds.
func (idx *Index) Ping(_ context.Context) error {
	return domain.ErrVectorIndexUnavailable
}

// Add inserts a vector for the given document ID.
func (idx *Index) Add(_ context.Context, _ string, _ []float32, _ driven.IndexAttributes) error {
	return domain.ErrNotImplemented
}

// Remove deletes a vector from the index.
func (idx *Index) Remove(_ context.Context, _ string) error {
	return domain.ErrNotImplemented
}

// Search finds the k nearest neighbours to the query vector.
func (idx *Index) Search(
	_ context.Context, _ []float32, _ int, _ *domain.Filter,
) ([]driven.VectorHit, error) {
	return nil, domain.ErrNotImplemented
}

// Clear removes every vector.
func (idx *Index) Clear(_ context.Context) error {
	return domain.ErrNotImplemented
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}
