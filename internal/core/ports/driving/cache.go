package driving

import (
	"time"

	"github.com/custodia-labs/localrag/internal/core/domain"
)

// ResponseCache sits in front of the expensive model-completion path.
// Keys are derived from normalised query text so trivially different
// phrasings of the same question share an entry.
type ResponseCache interface {
	// Get returns the cached value for a query, or false on miss.
	// Expired entries are treated as misses and lazily evicted.
	Get(query string) (any, bool)

	// Put stores a value under the normalised query key with the given
	// TTL, evicting the least-recently-used entry at capacity.
	// A non-positive TTL uses the configured default.
	Put(query string, value any, ttl time.Duration)

	// Stats reports size, capacity and hit rate.
	Stats() domain.CacheStats

	// Clear removes all entries and resets counters.
	Clear()
}
