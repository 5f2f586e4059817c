package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mock := &mockRetrievalService{
			results: []domain.SearchResult{
				{
					Document: domain.Document{
						ID:      "doc-1",
						Title:   "Test Doc",
						DocType: "note",
						Source:  "/path/to/doc",
						Content: "This is the content",
					},
					Score: 0.95,
				},
			},
		}

		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		input := SearchInput{Query: "test", Limit: 10}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "Test Doc", output.Results[0].Title)
		assert.Equal(t, "note", output.Results[0].DocType)
		assert.Equal(t, 0.95, output.Results[0].Score)
		assert.Equal(t, "This is the content", output.Results[0].Content)
	})

	t.Run("applies default limit", func(t *testing.T) {
		mock := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSearchLimit, mock.lastK)
	})

	t.Run("builds filter from doc_type and metadata", func(t *testing.T) {
		mock := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		input := SearchInput{
			Query:    "test",
			DocType:  "note",
			Metadata: map[string]string{"project": "alpha"},
		}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		require.NotNil(t, mock.lastFilter)
		assert.Equal(t, "note", mock.lastFilter.DocType)
		assert.Equal(t, "alpha", mock.lastFilter.Metadata["project"])
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mock := &mockRetrievalService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests and returns the ID", func(t *testing.T) {
		mock := &mockRetrievalService{}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		input := IngestInput{
			Content: "document body",
			Title:   "Title",
			DocType: "note",
		}
		_, output, err := server.handleIngest(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "derived-id", output.DocumentID)
		require.Len(t, mock.ingested, 1)
		assert.Equal(t, "document body", mock.ingested[0].Content)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		mock := &mockRetrievalService{err: domain.ErrEmptyContent}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{})

		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})
}

func TestServer_handleDelete(t *testing.T) {
	mock := &mockRetrievalService{}
	server, err := NewServer(&Ports{Retrieval: mock})
	require.NoError(t, err)

	_, output, err := server.handleDelete(context.Background(), nil, DeleteInput{ID: "doc-1"})

	require.NoError(t, err)
	assert.True(t, output.Deleted)
	assert.Equal(t, []string{"doc-1"}, mock.deleted)
}

func TestServer_handleStats(t *testing.T) {
	mock := &mockRetrievalService{
		stats: domain.Stats{
			TotalDocuments: 42,
			DocumentTypes:  map[string]int{"note": 40, "guide": 2},
			ActiveTier:     domain.TierSQLiteVec,
			StoragePath:    "/data",
		},
	}
	server, err := NewServer(&Ports{Retrieval: mock})
	require.NoError(t, err)

	_, output, err := server.handleStats(context.Background(), nil, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, 42, output.TotalDocuments)
	assert.Equal(t, domain.TierSQLiteVec.String(), output.ActiveTier)
}

func TestNewServer_RequiresRetrievalService(t *testing.T) {
	server, err := NewServer(&Ports{})

	assert.Nil(t, server)
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
}
