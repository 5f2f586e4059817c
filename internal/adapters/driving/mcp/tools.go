package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string            `json:"query" jsonschema:"the search query to find documents"`
	Limit    int               `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	DocType  string            `json:"doc_type,omitempty" jsonschema:"restrict results to this document type"`
	Metadata map[string]string `json:"metadata,omitempty" jsonschema:"restrict results to documents with these metadata values"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	DocType    string  `json:"doc_type,omitempty"`
	Source     string  `json:"source,omitempty"`
	Score      float64 `json:"score"`
	Content    string  `json:"content,omitempty"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Content  string            `json:"content" jsonschema:"the document text to index"`
	Title    string            `json:"title,omitempty" jsonschema:"human-readable document title"`
	DocType  string            `json:"doc_type,omitempty" jsonschema:"document type tag used for filtering"`
	ID       string            `json:"id,omitempty" jsonschema:"document ID; derived from content when omitted, reusing an existing ID updates that document"`
	Metadata map[string]string `json:"metadata,omitempty" jsonschema:"key-value metadata attached to the document"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	ID string `json:"id" jsonschema:"the document ID to remove"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

// RebuildOutput is the output schema for the rebuild_index tool.
type RebuildOutput struct {
	DocumentsIndexed int `json:"documents_indexed"`
}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	TotalDocuments int            `json:"total_documents"`
	DocumentTypes  map[string]int `json:"document_types"`
	ActiveTier     string         `json:"active_tier"`
	StoragePath    string         `json:"storage_path"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the local document index by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Add or update a document in the local index",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Remove a document from the local index",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rebuild_index",
		Description: "Re-embed and re-index every stored document",
	}, s.handleRebuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_stats",
		Description: "Report document counts and the active vector backend",
	}, s.handleStats)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	var filter *domain.Filter
	if input.DocType != "" || len(input.Metadata) > 0 {
		filter = &domain.Filter{
			DocType:  input.DocType,
			Metadata: input.Metadata,
		}
	}

	results, err := s.ports.Retrieval.Search(ctx, input.Query, limit, filter)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			Title:      results[i].Document.Title,
			DocType:    results[i].Document.DocType,
			Source:     results[i].Document.Source,
			Score:      results[i].Score,
			Content:    results[i].Document.Content,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	id, err := s.ports.Retrieval.Ingest(ctx, &domain.Document{
		ID:       input.ID,
		Title:    input.Title,
		DocType:  input.DocType,
		Content:  input.Content,
		Metadata: input.Metadata,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{DocumentID: id}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := s.ports.Retrieval.Delete(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{Deleted: true}, nil
}

// handleRebuild handles the rebuild_index tool invocation.
func (s *Server) handleRebuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, RebuildOutput, error) {
	count, err := s.ports.Retrieval.Rebuild(ctx)
	if err != nil {
		return nil, RebuildOutput{}, err
	}
	return nil, RebuildOutput{DocumentsIndexed: count}, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	return nil, StatsOutput{
		TotalDocuments: stats.TotalDocuments,
		DocumentTypes:  stats.DocumentTypes,
		ActiveTier:     stats.ActiveTier.String(),
		StoragePath:    stats.StoragePath,
	}, nil
}
