package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
	"github.com/custodia-labs/localrag/internal/core/ports/driving"
	"github.com/custodia-labs/localrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService composes the embedder, the metadata store and the
// active vector backend into the engine's public contract.
//
// A single write mutex serialises Ingest, Delete and Rebuild; Search
// runs without it and relies on the backend's own read locking.
type RetrievalService struct {
	writeMu sync.Mutex

	store       driven.MetadataStore
	embedder    driven.Embedder
	backend     driven.VectorBackend
	storagePath string
}

// NewRetrievalService creates a new retrieval service. The backend has
// already been selected by the capability probe; the service never
// re-checks tiers per call.
func NewRetrievalService(
	store driven.MetadataStore,
	embedder driven.Embedder,
	backend driven.VectorBackend,
	storagePath string,
) *RetrievalService {
	return &RetrievalService{
		store:       store,
		embedder:    embedder,
		backend:     backend,
		storagePath: storagePath,
	}
}

// Reload mirrors every stored vector into a non-persistent backend.
// Must complete before the engine accepts queries; persistent tiers
// load themselves and make this a no-op. Returns the number of vectors
// loaded.
func (s *RetrievalService) Reload(ctx context.Context) (int, error) {
	if s.backend.Tier().Persistent() {
		return 0, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	docs, err := s.store.List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("listing documents: %w", err)
	}

	for i := range docs {
		doc := &docs[i]
		if err := s.backend.Add(ctx, doc.ID, doc.Embedding, indexAttributes(doc)); err != nil {
			return 0, fmt.Errorf("indexing %s: %w", doc.ID, err)
		}
	}

	logger.Info("Reloaded %d vectors into %s backend", len(docs), s.backend.Tier())
	return len(docs), nil
}

// Ingest embeds the document text, persists the record and indexes the
// vector. Returns the document ID.
func (s *RetrievalService) Ingest(ctx context.Context, doc *domain.Document) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}
	if strings.TrimSpace(doc.Content) == "" {
		return "", fmt.Errorf("ingest: %w", domain.ErrEmptyContent)
	}

	embedding := s.embedder.Embed(doc.Content)
	if isZeroVector(embedding) {
		// Punctuation-only text tokenises to nothing.
		return "", fmt.Errorf("ingest: %w", domain.ErrEmptyContent)
	}

	if doc.ID == "" {
		doc.ID = domain.DeriveID(doc.Content)
	}
	doc.Embedding = embedding
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	logger.Debug("Ingesting document %s (type=%q, %d bytes)", doc.ID, doc.DocType, len(doc.Content))

	// Persist first: data safety takes priority over index freshness.
	if err := s.store.Save(ctx, doc); err != nil {
		return "", fmt.Errorf("persisting document: %w", err)
	}

	// Re-ingestion under the same ID replaces the old vector; removing
	// first guarantees no duplicate index entries.
	if err := s.backend.Remove(ctx, doc.ID); err != nil {
		return "", fmt.Errorf("removing stale vector: %w", err)
	}
	if err := s.backend.Add(ctx, doc.ID, doc.Embedding, indexAttributes(doc)); err != nil {
		return "", fmt.Errorf("indexing vector: %w", err)
	}

	return doc.ID, nil
}

// Search embeds the query and returns the top-k hits joined back to
// full document records.
func (s *RetrievalService) Search(
	ctx context.Context, query string, k int, filter *domain.Filter,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, k=%d", query, k)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search: empty query: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, fmt.Errorf("search: k must be positive: %w", domain.ErrInvalidInput)
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	embedding := s.embedder.Embed(query)
	if isZeroVector(embedding) {
		return nil, fmt.Errorf("search: query has no embeddable tokens: %w", domain.ErrInvalidInput)
	}

	hits, err := s.backend.Search(ctx, embedding, k, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Backend returned %d hits", len(hits))

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc, err := s.store.Get(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Index and store drifted; skip the orphan.
				logger.Warn("Indexed document %s missing from store, skipping", hit.ID)
				continue
			}
			return nil, fmt.Errorf("hydrating %s: %w", hit.ID, err)
		}
		results = append(results, domain.SearchResult{
			Document: *doc,
			Score:    hit.Similarity,
		})
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}

// Delete removes a document from the metadata store and the index.
func (s *RetrievalService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if err := s.backend.Remove(ctx, id); err != nil {
		return fmt.Errorf("removing vector: %w", err)
	}
	return nil
}

// Rebuild clears the vector index and re-embeds and re-indexes every
// stored document.
func (s *RetrievalService) Rebuild(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	logger.Section("Index Rebuild")

	if err := s.backend.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clearing index: %w", err)
	}

	docs, err := s.store.List(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("listing documents: %w", err)
	}

	count := 0
	for i := range docs {
		doc := &docs[i]

		embedding := s.embedder.Embed(doc.Content)
		if isZeroVector(embedding) {
			// Cannot happen for documents ingested through this engine;
			// tolerate hand-edited stores rather than aborting the rebuild.
			logger.Warn("Document %s has no embeddable content, skipping", doc.ID)
			continue
		}

		if !equalVectors(embedding, doc.Embedding) {
			doc.Embedding = embedding
			if err := s.store.Save(ctx, doc); err != nil {
				return count, fmt.Errorf("updating embedding for %s: %w", doc.ID, err)
			}
		}

		if err := s.backend.Add(ctx, doc.ID, embedding, indexAttributes(doc)); err != nil {
			return count, fmt.Errorf("indexing %s: %w", doc.ID, err)
		}
		count++
	}

	logger.Info("Rebuilt index with %d documents", count)
	return count, nil
}

// Stats reports document counts and the active backend tier.
func (s *RetrievalService) Stats(ctx context.Context) (domain.Stats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("counting documents: %w", err)
	}

	byType, err := s.store.CountByType(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("counting by type: %w", err)
	}

	return domain.Stats{
		TotalDocuments: total,
		DocumentTypes:  byType,
		ActiveTier:     s.backend.Tier(),
		StoragePath:    s.storagePath,
	}, nil
}

// validateFilter rejects malformed filters before they reach a backend.
func validateFilter(filter *domain.Filter) error {
	if filter == nil {
		return nil
	}
	for key := range filter.Metadata {
		if key == "" {
			return fmt.Errorf("filter: empty metadata key: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

// indexAttributes extracts the filterable fields from a document.
func indexAttributes(doc *domain.Document) driven.IndexAttributes {
	return driven.IndexAttributes{
		DocType:   doc.DocType,
		Metadata:  doc.Metadata,
		CreatedAt: doc.CreatedAt,
	}
}

// isZeroVector reports whether the embedding has no magnitude.
func isZeroVector(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

// equalVectors compares two embeddings element-wise.
func equalVectors(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
