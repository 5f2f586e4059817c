package domain

// CacheStats reports response cache performance for operators.
type CacheStats struct {
	// Size is the current number of live entries.
	Size int

	// MaxSize is the configured capacity in entries.
	MaxSize int

	// Hits is the number of lookups served from the cache.
	Hits int64

	// Misses is the number of lookups that fell through.
	Misses int64
}

// TotalRequests returns the number of lookups observed.
func (s CacheStats) TotalRequests() int64 {
	return s.Hits + s.Misses
}

// HitRate returns the fraction of lookups served from the cache.
// Returns 0 when no lookups have been observed.
func (s CacheStats) HitRate() float64 {
	total := s.TotalRequests()
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
