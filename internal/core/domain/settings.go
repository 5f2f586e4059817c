package domain

import "time"

// Default configuration values.
const (
	// DefaultDimension is the embedding vector size.
	DefaultDimension = 384

	// DefaultMaxTokens bounds the number of tokens embedded per text.
	// Longer texts are truncated to keep embedding latency flat.
	DefaultMaxTokens = 256

	// DefaultSearchLimit is the number of results when k is unspecified.
	DefaultSearchLimit = 5

	// DefaultCacheSize is the maximum number of response cache entries.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the lifetime of a response cache entry.
	DefaultCacheTTL = time.Hour
)

// Settings holds the engine configuration.
// Zero values are replaced by defaults in Normalise.
type Settings struct {
	// InstanceID identifies this installation in logs and diagnostics.
	// Generated on first load and stable thereafter.
	InstanceID string `toml:"instance_id"`

	// StorageRoot is the directory holding the metadata store and any
	// persistent vector index. Removing it wipes the whole index.
	StorageRoot string `toml:"storage_root"`

	// Dimension is the embedding vector size.
	Dimension int `toml:"dimension"`

	// MaxTokens is the embedding truncation bound.
	MaxTokens int `toml:"max_tokens"`

	// CacheSize is the response cache capacity in entries.
	CacheSize int `toml:"cache_size"`

	// CacheTTLSeconds is the default response cache entry lifetime.
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`

	// FuzzyCacheThreshold enables similarity-based cache lookups when
	// greater than zero. A miss on the exact key then consults the
	// retrieval engine and accepts a previously cached question scoring
	// at or above this cosine similarity. Disabled by default.
	FuzzyCacheThreshold float64 `toml:"fuzzy_cache_threshold"`
}

// Normalise fills unset fields with defaults and clamps invalid values.
func (s *Settings) Normalise() {
	if s.Dimension <= 0 {
		s.Dimension = DefaultDimension
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.CacheSize <= 0 {
		s.CacheSize = DefaultCacheSize
	}
	if s.CacheTTLSeconds <= 0 {
		s.CacheTTLSeconds = int(DefaultCacheTTL / time.Second)
	}
	if s.FuzzyCacheThreshold < 0 || s.FuzzyCacheThreshold > 1 {
		s.FuzzyCacheThreshold = 0
	}
}

// CacheTTL returns the default cache entry lifetime as a duration.
func (s *Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// FuzzyCacheEnabled returns true if similarity-based cache lookups are on.
func (s *Settings) FuzzyCacheEnabled() bool {
	return s.FuzzyCacheThreshold > 0
}
