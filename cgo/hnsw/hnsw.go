//go:build cgo

package hnsw

/*
#cgo CXXFLAGS: -std=c++17 -O3 -I${SRCDIR}/../../clib/build/_deps/hnswlib-src
#cgo LDFLAGS: -lstdc++

#include "hnsw_wrapper.h"
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"errors"
	"sync"
	"unsafe"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorBackend = (*Index)(nil)

// DefaultMaxElements bounds the index capacity.
const DefaultMaxElements = 100000

// overFetchFactor widens HNSW searches so that post-scan filtering can
// still return k results from a partially matching candidate set.
const overFetchFactor = 4

// Index provides vector similarity search using HNSWlib.
// Filterable attributes are kept on the Go side: HNSWlib ranks first,
// the attribute map narrows afterwards, which makes filtered recall
// approximate on this tier.
type Index struct {
	mu        sync.RWMutex
	idx       *C.HnswIndex
	path      string
	dimension int
	attrs     map[string]driven.IndexAttributes
}

// New creates or opens an HNSW index at the given path.
func New(path string, dimension int) (*Index, error) {
	if path == "" {
		return nil, errors.New("hnsw: path cannot be empty")
	}
	if dimension <= 0 {
		return nil, errors.New("hnsw: dimension must be positive")
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	// Try to open existing index first
	idx := C.hnsw_open(cpath, C.int(dimension))
	if idx == nil {
		idx = C.hnsw_create(cpath, C.int(dimension), C.int(DefaultMaxElements))
		if idx == nil {
			return nil, errors.New("hnsw: failed to create index")
		}
	}

	return &Index{
		idx:       idx,
		path:      path,
		dimension: dimension,
		attrs:     make(map[string]driven.IndexAttributes),
	}, nil
}

// Tier identifies this implementation.
func (idx *Index) Tier() domain.Tier {
	return domain.TierHNSW
}

// Ping validates the native index is open.
func (idx *Index) Ping(_ context.Context) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.idx == nil {
		return domain.ErrIndexClosed
	}
	return nil
}

// Add inserts or replaces the vector for the given document ID.
func (idx *Index) Add(
	_ context.Context, id string, embedding []float32, attrs driven.IndexAttributes,
) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.idx == nil {
		return domain.ErrIndexClosed
	}
	if len(embedding) != idx.dimension {
		return domain.ErrDimensionMismatch
	}

	cID := C.CString(id)
	defer C.free(unsafe.Pointer(cID))

	result := C.hnsw_add(
		idx.idx,
		cID,
		(*C.float)(unsafe.Pointer(&embedding[0])),
		C.int(idx.dimension),
	)
	if result != 0 {
		return errors.New("hnsw: failed to add vector")
	}

	idx.attrs[id] = attrs
	return nil
}

// Remove deletes a vector from the index.
func (idx *Index) Remove(_ context.Context, id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.idx == nil {
		return domain.ErrIndexClosed
	}

	cID := C.CString(id)
	defer C.free(unsafe.Pointer(cID))

	result := C.hnsw_delete(idx.idx, cID)
	if result != 0 {
		return errors.New("hnsw: failed to delete vector")
	}

	delete(idx.attrs, id)
	return nil
}

// Search finds the k nearest neighbours matching the filter.
func (idx *Index) Search(
	_ context.Context, query []float32, k int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.idx == nil {
		return nil, domain.ErrIndexClosed
	}
	if len(query) != idx.dimension {
		return nil, domain.ErrDimensionMismatch
	}
	if k <= 0 {
		return nil, nil
	}

	fetch := k
	if !filter.IsZero() {
		fetch = k * overFetchFactor
	}

	var results *C.HnswSearchResult
	count := C.hnsw_search(
		idx.idx,
		(*C.float)(unsafe.Pointer(&query[0])),
		C.int(idx.dimension),
		C.int(fetch),
		&results,
	)
	if count < 0 {
		return nil, errors.New("hnsw: search failed")
	}
	if count == 0 || results == nil {
		return nil, nil
	}
	defer C.hnsw_free_results(results, count)

	cResults := unsafe.Slice(results, int(count))

	hits := make([]driven.VectorHit, 0, k)
	for i := 0; i < int(count) && len(hits) < k; i++ {
		id := C.GoString(cResults[i].doc_id)
		attrs := idx.attrs[id]
		if !filter.Matches(attrs.DocType, attrs.Metadata) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ID:         id,
			Similarity: float64(cResults[i].similarity),
		})
	}

	return hits, nil
}

// Clear removes every vector.
func (idx *Index) Clear(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.idx == nil {
		return domain.ErrIndexClosed
	}

	if result := C.hnsw_clear(idx.idx); result != 0 {
		return errors.New("hnsw: failed to clear index")
	}

	idx.attrs = make(map[string]driven.IndexAttributes)
	return nil
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.idx != nil {
		C.hnsw_close(idx.idx)
		idx.idx = nil
	}
	return nil
}
