package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheStats_HitRate(t *testing.T) {
	assert.Zero(t, CacheStats{}.HitRate(), "no lookups means zero rate, not NaN")

	stats := CacheStats{Hits: 3, Misses: 1}
	assert.Equal(t, int64(4), stats.TotalRequests())
	assert.InDelta(t, 0.75, stats.HitRate(), 1e-9)
}
