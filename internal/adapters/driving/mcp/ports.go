package mcp

import (
	"github.com/custodia-labs/localrag/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval provides ingest, search and index management.
	Retrieval driving.RetrievalService

	// Cache is the response cache, exposed read-only for diagnostics.
	Cache driving.ResponseCache
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Cache is optional
	return nil
}
