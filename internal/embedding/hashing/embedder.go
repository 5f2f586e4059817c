// Package hashing implements a deterministic, dependency-free embedder.
//
// Text is tokenised, each token's position-weighted term frequency is
// projected into a fixed-dimension dense vector via the hashing trick,
// and the result is normalised to unit length so cosine similarity
// reduces to a dot product. No model files, no network: the same text
// always yields the same vector.
package hashing

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// positionDecay controls how quickly token weight falls off with
// position. Tokens near the start of the text (titles, leading
// sentences) contribute more to the signature.
const positionDecay = 0.05

// Embedder projects hashed token frequencies into a dense vector.
type Embedder struct {
	dimension int
	maxTokens int
}

// Option configures the embedder.
type Option func(*Embedder)

// WithDimension sets the output vector size.
func WithDimension(dim int) Option {
	return func(e *Embedder) {
		if dim > 0 {
			e.dimension = dim
		}
	}
}

// WithMaxTokens bounds the number of tokens considered per text.
func WithMaxTokens(n int) Option {
	return func(e *Embedder) {
		if n > 0 {
			e.maxTokens = n
		}
	}
}

// New creates an embedder with the given options.
func New(opts ...Option) *Embedder {
	e := &Embedder{
		dimension: domain.DefaultDimension,
		maxTokens: domain.DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimension returns the embedding vector size.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// Embed generates a unit-length vector for the given text.
// Empty or whitespace-only text yields the zero vector.
func (e *Embedder) Embed(text string) []float32 {
	vec := make([]float32, e.dimension)

	tokens := Tokenise(text)
	if len(tokens) > e.maxTokens {
		tokens = tokens[:e.maxTokens]
	}

	for i, token := range tokens {
		// Position-weighted term frequency: earlier tokens count more.
		weight := 1.0 / (1.0 + positionDecay*float64(i))

		bucket, sign := hashToken(token, e.dimension)
		vec[bucket] += float32(sign * weight)
	}

	normalise(vec)
	return vec
}

// hashToken maps a token to a bucket and a sign via FNV-1a.
// The sign bit spreads colliding tokens across both directions of the
// bucket axis, which keeps unrelated token sets from accumulating
// spurious similarity.
func hashToken(token string, dimension int) (bucket int, sign float64) {
	h := fnv.New64a()
	h.Write([]byte(token)) //nolint:errcheck // hash writes never fail
	sum := h.Sum64()

	bucket = int(sum % uint64(dimension)) //nolint:gosec // dimension is small and positive
	if sum>>63&1 == 1 {
		return bucket, -1
	}
	return bucket, 1
}

// Tokenise lowercases the text, strips punctuation and splits on
// whitespace. Shared with query normalisation so documents and queries
// land in the same token space.
func Tokenise(text string) []string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Fields(b.String())
}

// normalise scales the vector to unit length in place.
// The zero vector is left untouched.
func normalise(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}

	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}

// IsZero reports whether the vector has no magnitude. Callers reject
// zero vectors as non-indexable.
func IsZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
