package driven

// Embedder generates vector embeddings from text.
//
// Unlike a remote embedding service there is no network, no state and no
// failure mode: the same text always yields the same vector. Empty or
// whitespace-only text yields the zero vector, which callers must treat
// as non-indexable.
type Embedder interface {
	// Embed generates a unit-length vector embedding for the given text,
	// or the zero vector when the text has no embeddable tokens.
	Embed(text string) []float32

	// Dimension returns the embedding vector size.
	// This must match the VectorBackend configuration.
	Dimension() int
}
