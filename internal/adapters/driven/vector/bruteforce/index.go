// Package bruteforce implements the always-available fallback tier:
// exact cosine similarity over plain in-memory float32 arrays.
//
// No persistence, no dependencies, O(n) per query. The engine rebuilds
// it from the metadata store at startup. It also serves as the ranking
// core for the persistent SQLite-backed tier.
package bruteforce

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorBackend = (*Index)(nil)

// entry pairs a stored vector with its filterable attributes.
type entry struct {
	vector []float32
	attrs  driven.IndexAttributes
}

// Index holds all vectors in memory and scans them exactly.
type Index struct {
	mu        sync.RWMutex
	dimension int
	closed    bool
	entries   map[string]entry
}

// New creates an empty brute-force index for the given dimension.
func New(dimension int) *Index {
	return &Index{
		dimension: dimension,
		entries:   make(map[string]entry),
	}
}

// Tier identifies this implementation.
func (idx *Index) Tier() domain.Tier {
	return domain.TierBruteForce
}

// Ping always succeeds: the fallback tier has no failure mode.
func (idx *Index) Ping(_ context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return domain.ErrIndexClosed
	}
	return nil
}

// Add inserts or replaces the vector for the given document ID.
func (idx *Index) Add(_ context.Context, id string, embedding []float32, attrs driven.IndexAttributes) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return domain.ErrIndexClosed
	}
	if len(embedding) != idx.dimension {
		return fmt.Errorf("add %s: %w", id, domain.ErrDimensionMismatch)
	}

	// Copy so later caller mutations cannot corrupt the index.
	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	idx.entries[id] = entry{vector: vec, attrs: attrs}
	return nil
}

// Remove deletes a vector from the index.
func (idx *Index) Remove(_ context.Context, id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return domain.ErrIndexClosed
	}
	delete(idx.entries, id)
	return nil
}

// Search scans every entry matching the filter and returns the top k by
// cosine similarity. Vectors are unit length, so similarity is the dot
// product. Ties break by most recent CreatedAt.
func (idx *Index) Search(
	_ context.Context, query []float32, k int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, domain.ErrIndexClosed
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("search: %w", domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	type scored struct {
		hit   driven.VectorHit
		attrs driven.IndexAttributes
	}

	// Filter narrows the candidate set before ranking, so k results come
	// from the filtered set whenever enough documents match.
	var candidates []scored
	for id, e := range idx.entries {
		if !filter.Matches(e.attrs.DocType, e.attrs.Metadata) {
			continue
		}
		candidates = append(candidates, scored{
			hit:   driven.VectorHit{ID: id, Similarity: dot(query, e.vector)},
			attrs: e.attrs,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].hit.Similarity != candidates[j].hit.Similarity {
			return candidates[i].hit.Similarity > candidates[j].hit.Similarity
		}
		return candidates[i].attrs.CreatedAt.After(candidates[j].attrs.CreatedAt)
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	hits := make([]driven.VectorHit, len(candidates))
	for i, c := range candidates {
		hits[i] = c.hit
	}
	return hits, nil
}

// Clear removes every vector.
func (idx *Index) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return domain.ErrIndexClosed
	}
	idx.entries = make(map[string]entry)
	return nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.entries = nil
	return nil
}

// dot computes the dot product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
