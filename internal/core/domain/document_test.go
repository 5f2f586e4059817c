package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveID(t *testing.T) {
	a := DeriveID("the same content")
	b := DeriveID("the same content")
	c := DeriveID("different content")

	assert.Equal(t, a, b, "identical content derives identical IDs")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32, "ID is a 16-byte hex digest")
}
