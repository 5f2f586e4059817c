package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document represents an indexed document with its embedding and metadata.
// It is the canonical representation inside the engine: callers hand over
// raw text and descriptive fields, ingestion attaches the embedding.
type Document struct {
	// ID is the unique identifier for the document.
	// Caller-supplied, or derived from the content when empty.
	ID string

	// Title is the human-readable title.
	Title string

	// Source is a provenance label (e.g. "catalog", "user upload").
	Source string

	// DocType is a free-form category tag used as a coarse query filter.
	DocType string

	// Content is the full text content; source of the embedding.
	Content string

	// Metadata contains arbitrary key-value pairs, opaque to the engine
	// and returned verbatim on search hits.
	Metadata map[string]string

	// Embedding is the vector representation, computed once at ingestion
	// and immutable until the document is re-ingested under the same ID.
	Embedding []float32

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// DeriveID returns a stable identifier for the document content.
// Re-ingesting identical text yields the same ID, which makes
// content-addressed ingestion an upsert rather than a duplicate.
func DeriveID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:16])
}
