package hashing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func TestEmbed_Deterministic(t *testing.T) {
	e := New()

	first := e.Embed("Python training price 690 euros")
	second := e.Embed("Python training price 690 euros")

	require.Len(t, first, e.Dimension())
	assert.Equal(t, first, second, "same text must yield bit-identical vectors")
}

func TestEmbed_UnitLength(t *testing.T) {
	e := New()

	tests := []string{
		"hello",
		"Python training price 690 euros",
		"The quick brown fox jumps over the lazy dog.",
		"a",
	}

	for _, text := range tests {
		vec := e.Embed(text)
		norm := math.Sqrt(dot(vec, vec))
		assert.InDelta(t, 1.0, norm, 1e-6, "norm for %q", text)
	}
}

func TestEmbed_EmptyText(t *testing.T) {
	e := New()

	assert.True(t, IsZero(e.Embed("")))
	assert.True(t, IsZero(e.Embed("   \t\n  ")))
	assert.True(t, IsZero(e.Embed("!!! ... ???")))
}

func TestEmbed_CaseAndPunctuationFolding(t *testing.T) {
	e := New()

	a := e.Embed("Python, Training!")
	b := e.Embed("python training")

	assert.Equal(t, a, b, "case and punctuation must not change the vector")
}

func TestEmbed_SharedTokensScoreHigher(t *testing.T) {
	e := New()

	query := e.Embed("price of python course")
	python := e.Embed("Python training price 690 euros")
	excel := e.Embed("Excel training price 1200 euros")

	assert.Greater(t, dot(query, python), dot(query, excel),
		"document sharing more query tokens must score higher")
}

func TestEmbed_CustomDimension(t *testing.T) {
	e := New(WithDimension(64))

	vec := e.Embed("hello world")
	assert.Len(t, vec, 64)
	assert.Equal(t, 64, e.Dimension())
}

func TestEmbed_MaxTokensTruncation(t *testing.T) {
	short := New(WithMaxTokens(2))
	full := New()

	// Beyond the bound the extra token must not change the vector.
	a := short.Embed("alpha beta gamma")
	b := short.Embed("alpha beta delta")
	assert.Equal(t, a, b)

	// The full embedder still distinguishes them.
	c := full.Embed("alpha beta gamma")
	d := full.Embed("alpha beta delta")
	assert.NotEqual(t, c, d)
}

func TestEmbed_PositionWeighting(t *testing.T) {
	e := New()

	// "budget" leads in one text and trails in the other; the leading
	// occurrence should pull the vector closer to the bare token.
	token := e.Embed("budget")
	leading := e.Embed("budget report for the finance team covering every quarter")
	trailing := e.Embed("report for the finance team covering every quarter budget")

	assert.Greater(t, dot(token, leading), dot(token, trailing))
}

func TestTokenise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "simple", in: "Hello World", want: []string{"hello", "world"}},
		{name: "punctuation", in: "price: 690, euros!", want: []string{"price", "690", "euros"}},
		{name: "empty", in: "", want: nil},
		{name: "unicode", in: "Café au Lait", want: []string{"café", "au", "lait"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenise(tt.in))
		})
	}
}
