package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/localrag/internal/adapters/driven/vector/bruteforce"
	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
	"github.com/custodia-labs/localrag/internal/embedding/hashing"
)

// memStore is an in-memory MetadataStore for service tests.
type memStore struct {
	docs map[string]domain.Document
}

var _ driven.MetadataStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]domain.Document)}
}

func (m *memStore) Save(_ context.Context, doc *domain.Document) error {
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.docs, id)
	return nil
}

func (m *memStore) List(_ context.Context, filter *domain.Filter) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range m.docs {
		if filter.Matches(doc.DocType, doc.Metadata) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *memStore) CountByType(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, doc := range m.docs {
		counts[doc.DocType]++
	}
	return counts, nil
}

func (m *memStore) Close() error { return nil }

func setupService(t *testing.T) (*RetrievalService, *memStore) {
	t.Helper()

	embedder := hashing.New(hashing.WithDimension(64))
	store := newMemStore()
	backend := bruteforce.New(64)
	t.Cleanup(func() { backend.Close() })

	return NewRetrievalService(store, embedder, backend, t.TempDir()), store
}

func TestRetrievalService_IngestAndSearch(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	id, err := svc.Ingest(ctx, &domain.Document{
		Title:   "Python guide",
		Content: "Python is a versatile programming language used for scripting",
		DocType: "guide",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id, "ID must be derived when not provided")

	_, err = svc.Ingest(ctx, &domain.Document{
		Title:   "Spreadsheet notes",
		Content: "Excel spreadsheets organise tabular data into cells",
		DocType: "note",
	})
	require.NoError(t, err)

	results, err := svc.Search(ctx, "python programming language", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, id, results[0].Document.ID)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestRetrievalService_IngestValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, &domain.Document{Content: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyContent)

	_, err = svc.Ingest(ctx, &domain.Document{Content: "!!! ... ???"})
	assert.ErrorIs(t, err, domain.ErrEmptyContent, "unembeddable text must be rejected")
}

func TestRetrievalService_IngestUpsert(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, &domain.Document{
		ID:      "doc-1",
		Content: "original content about databases",
	})
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, &domain.Document{
		ID:      "doc-1",
		Content: "replacement content about networking",
	})
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-ingesting an ID must update, not duplicate")

	doc, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "networking")
}

func TestRetrievalService_SearchValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, "", 5, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Search(ctx, "valid query", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Search(ctx, "valid query", -3, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Search(ctx, "valid query", 5, &domain.Filter{
		Metadata: map[string]string{"": "value"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrievalService_SearchFilter(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, &domain.Document{
		Content: "kubernetes deployment configuration",
		DocType: "runbook",
	})
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, &domain.Document{
		Content: "kubernetes cluster troubleshooting",
		DocType: "incident",
	})
	require.NoError(t, err)

	results, err := svc.Search(ctx, "kubernetes", 10, &domain.Filter{DocType: "runbook"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "runbook", results[0].Document.DocType)
}

func TestRetrievalService_SearchSkipsOrphanedHits(t *testing.T) {
	svc, store := setupService(t)
	ctx := context.Background()

	id, err := svc.Ingest(ctx, &domain.Document{Content: "document that will vanish from the store"})
	require.NoError(t, err)

	// Remove the record behind the engine's back; the stale vector stays.
	require.NoError(t, store.Delete(ctx, id))

	results, err := svc.Search(ctx, "document vanish store", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results, "hits without a backing record are dropped")
}

func TestRetrievalService_Delete(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	id, err := svc.Ingest(ctx, &domain.Document{Content: "temporary document"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	results, err := svc.Search(ctx, "temporary document", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.NoError(t, svc.Delete(ctx, "never-existed"), "deleting a missing ID is not an error")
	assert.ErrorIs(t, svc.Delete(ctx, ""), domain.ErrInvalidInput)
}

func TestRetrievalService_Rebuild(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for _, content := range []string{
		"first document about storage engines",
		"second document about query planners",
		"third document about write ahead logs",
	} {
		_, err := svc.Ingest(ctx, &domain.Document{Content: content})
		require.NoError(t, err)
	}

	count, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	results, err := svc.Search(ctx, "query planners", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Document.Content, "query planners")
}

func TestRetrievalService_Reload(t *testing.T) {
	embedder := hashing.New(hashing.WithDimension(64))
	store := newMemStore()
	ctx := context.Background()

	// Seed the store directly, as if a previous process had ingested.
	doc := domain.Document{
		ID:        "persisted-1",
		Content:   "previously ingested document",
		Embedding: embedder.Embed("previously ingested document"),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, &doc))

	backend := bruteforce.New(64)
	defer backend.Close()

	svc := NewRetrievalService(store, embedder, backend, t.TempDir())
	loaded, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	results, err := svc.Search(ctx, "previously ingested", 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "persisted-1", results[0].Document.ID)
}

func TestRetrievalService_Stats(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, &domain.Document{Content: "alpha document", DocType: "note"})
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, &domain.Document{Content: "beta document", DocType: "note"})
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, &domain.Document{Content: "gamma document", DocType: "guide"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, map[string]int{"note": 2, "guide": 1}, stats.DocumentTypes)
	assert.Equal(t, domain.TierBruteForce, stats.ActiveTier)
	assert.NotEmpty(t, stats.StoragePath)
}
