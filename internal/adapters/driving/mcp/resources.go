package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for engine resources.
	uriScheme = "localrag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "index-stats",
		Description: "Document counts and the active vector backend",
		MIMEType:    "application/json",
	}, s.handleStatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cache",
		Name:        "cache-stats",
		Description: "Response cache size and hit rate",
		MIMEType:    "application/json",
	}, s.handleCacheResource)
}

// handleStatsResource returns index statistics as JSON.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}

	data, err := json.MarshalIndent(StatsOutput{
		TotalDocuments: stats.TotalDocuments,
		DocumentTypes:  stats.DocumentTypes,
		ActiveTier:     stats.ActiveTier.String(),
		StoragePath:    stats.StoragePath,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleCacheResource returns response cache statistics as JSON.
func (s *Server) handleCacheResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Cache == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	stats := s.ports.Cache.Stats()

	type cacheInfo struct {
		Size    int     `json:"size"`
		MaxSize int     `json:"max_size"`
		Hits    int64   `json:"hits"`
		Misses  int64   `json:"misses"`
		HitRate float64 `json:"hit_rate"`
	}

	data, err := json.MarshalIndent(cacheInfo{
		Size:    stats.Size,
		MaxSize: stats.MaxSize,
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		HitRate: stats.HitRate(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling cache stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
