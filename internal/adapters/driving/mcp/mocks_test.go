package mcp

import (
	"context"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driving"
)

// mockRetrievalService is a test double for driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.SearchResult
	stats   domain.Stats
	err     error

	lastQuery  string
	lastK      int
	lastFilter *domain.Filter
	ingested   []*domain.Document
	deleted    []string
	rebuilt    int
}

var _ driving.RetrievalService = (*mockRetrievalService)(nil)

func (m *mockRetrievalService) Ingest(_ context.Context, doc *domain.Document) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if doc.ID == "" {
		doc.ID = "derived-id"
	}
	m.ingested = append(m.ingested, doc)
	return doc.ID, nil
}

func (m *mockRetrievalService) Search(
	_ context.Context, query string, k int, filter *domain.Filter,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastK = k
	m.lastFilter = filter
	return m.results, m.err
}

func (m *mockRetrievalService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRetrievalService) Rebuild(_ context.Context) (int, error) {
	return m.rebuilt, m.err
}

func (m *mockRetrievalService) Stats(_ context.Context) (domain.Stats, error) {
	return m.stats, m.err
}
