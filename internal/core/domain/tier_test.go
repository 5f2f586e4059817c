package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTier_IsValid(t *testing.T) {
	assert.True(t, TierSQLiteVec.IsValid())
	assert.True(t, TierHNSW.IsValid())
	assert.True(t, TierBruteForce.IsValid())
	assert.False(t, Tier("faiss").IsValid())
	assert.False(t, Tier("").IsValid())
}

func TestTier_Persistent(t *testing.T) {
	assert.True(t, TierSQLiteVec.Persistent())
	assert.False(t, TierHNSW.Persistent(), "HNSW index is rebuilt from the store at startup")
	assert.False(t, TierBruteForce.Persistent())
}

func TestTier_Description(t *testing.T) {
	for _, tier := range []Tier{TierSQLiteVec, TierHNSW, TierBruteForce} {
		assert.NotEqual(t, "Unknown", tier.Description())
	}
	assert.Equal(t, "Unknown", Tier("faiss").Description())
}
