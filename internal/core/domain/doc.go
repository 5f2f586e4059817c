// Package domain defines the core business entities for the local
// retrieval engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An indexed document with its embedding and metadata
//   - SearchResult: A scored hit returned from a search
//   - Filter: Pre-ranking constraints on the candidate set
//   - Tier: The active vector backend implementation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
