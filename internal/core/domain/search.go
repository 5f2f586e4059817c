package domain

// Filter narrows the candidate set before ranking, so that k results
// come from the filtered set whenever at least k documents match.
type Filter struct {
	// DocType restricts results to a single document type.
	// Empty means no type restriction.
	DocType string

	// Metadata restricts results to documents whose metadata contains
	// every listed key with an equal value.
	Metadata map[string]string
}

// IsZero returns true if the filter imposes no constraints.
func (f *Filter) IsZero() bool {
	return f == nil || (f.DocType == "" && len(f.Metadata) == 0)
}

// Matches reports whether a document satisfies the filter.
func (f *Filter) Matches(docType string, metadata map[string]string) bool {
	if f == nil {
		return true
	}
	if f.DocType != "" && f.DocType != docType {
		return false
	}
	for key, want := range f.Metadata {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Document is the matched document, hydrated from the metadata store.
	Document Document

	// Score is the cosine similarity to the query (0-1).
	Score float64
}

// Stats reports the state of the engine for operators.
// ActiveTier makes degraded mode visible without inspecting logs.
type Stats struct {
	// TotalDocuments is the number of documents in the metadata store.
	TotalDocuments int

	// DocumentTypes maps each doc type to its document count.
	DocumentTypes map[string]int

	// ActiveTier is the vector backend selected at startup.
	ActiveTier Tier

	// StoragePath is the root directory holding all persistent state.
	StoragePath string
}
