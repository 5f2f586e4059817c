package services

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driving"
	"github.com/custodia-labs/localrag/internal/logger"
)

// Ensure ResponseCache implements the interface.
var _ driving.ResponseCache = (*ResponseCache)(nil)

// cachedQuestionDocType tags the companion documents that back fuzzy
// cache lookups in the retrieval engine.
const cachedQuestionDocType = "cached_question"

// stopWords are dropped during key normalisation so filler words do not
// split otherwise identical questions into separate entries.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "do": {}, "does": {}, "did": {}, "what": {}, "whats": {},
	"how": {}, "please": {}, "can": {}, "could": {}, "you": {}, "tell": {},
	"me": {}, "about": {}, "of": {}, "to": {}, "in": {}, "on": {},
}

type cacheEntry struct {
	key       string
	query     string
	value     any
	expiresAt time.Time
	hitCount  int
}

// ResponseCache is a bounded LRU with per-entry TTL, keyed by a digest
// of the normalised query text.
//
// When fuzzy lookup is enabled, every Put also ingests a small
// companion document into the retrieval engine; a miss on the exact key
// then searches those companions and accepts a previously cached
// question scoring at or above the configured similarity threshold.
// The companion path is best effort: engine failures degrade to a
// plain miss and never break caching.
type ResponseCache struct {
	mu sync.Mutex

	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time

	entries map[string]*list.Element
	order   *list.List // front is most recently used

	hits   int64
	misses int64

	retriever driving.RetrievalService
	threshold float64
}

// CacheOption configures the response cache.
type CacheOption func(*ResponseCache)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *ResponseCache) {
		c.now = now
	}
}

// WithFuzzyLookup enables similarity-based lookups through the
// retrieval engine. Entries whose normalised question scores at or
// above threshold against the incoming query are served as hits.
func WithFuzzyLookup(retriever driving.RetrievalService, threshold float64) CacheOption {
	return func(c *ResponseCache) {
		if retriever != nil && threshold > 0 && threshold <= 1 {
			c.retriever = retriever
			c.threshold = threshold
		}
	}
}

// NewResponseCache creates a cache holding at most maxSize entries.
// Non-positive sizes and TTLs fall back to the defaults.
func NewResponseCache(maxSize int, defaultTTL time.Duration, opts ...CacheOption) *ResponseCache {
	if maxSize <= 0 {
		maxSize = domain.DefaultCacheSize
	}
	if defaultTTL <= 0 {
		defaultTTL = domain.DefaultCacheTTL
	}

	c := &ResponseCache{
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		now:        time.Now,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for a query, or false on miss.
func (c *ResponseCache) Get(query string) (any, bool) {
	normalised := normaliseQuery(query)
	key := cacheKey(normalised)

	c.mu.Lock()
	if value, ok := c.lookupLocked(key); ok {
		c.mu.Unlock()
		return value, true
	}

	if c.retriever == nil || normalised == "" {
		c.misses++
		c.mu.Unlock()
		return nil, false
	}
	c.mu.Unlock()

	// Fuzzy path, outside the lock: the engine call may be slow.
	fuzzyKey, ok := c.nearestCachedKey(normalised)
	if !ok {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if value, ok := c.lookupLocked(fuzzyKey); ok {
		logger.Debug("Fuzzy cache hit for %q", query)
		return value, true
	}
	c.misses++
	return nil, false
}

// lookupLocked resolves a key to a live value, promoting the entry and
// counting the hit. Expired entries are evicted and reported as misses
// without incrementing the miss counter; the caller decides whether the
// overall Get missed.
func (c *ResponseCache) lookupLocked(key string) (any, bool) {
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		return nil, false
	}

	entry.hitCount++
	c.hits++
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Put stores a value under the normalised query key.
func (c *ResponseCache) Put(query string, value any, ttl time.Duration) {
	normalised := normaliseQuery(query)
	if normalised == "" {
		return
	}
	key := cacheKey(normalised)
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = c.now().Add(ttl)
		c.order.MoveToFront(elem)
		c.mu.Unlock()
		return
	}

	var evicted *cacheEntry
	if c.order.Len() >= c.maxSize {
		if back := c.order.Back(); back != nil {
			evicted = back.Value.(*cacheEntry)
			c.removeLocked(back)
		}
	}

	elem := c.order.PushFront(&cacheEntry{
		key:       key,
		query:     normalised,
		value:     value,
		expiresAt: c.now().Add(ttl),
	})
	c.entries[key] = elem
	c.mu.Unlock()

	if c.retriever != nil {
		if evicted != nil {
			c.forgetCompanion(evicted.key)
		}
		c.indexCompanion(key, normalised)
	}
}

// Stats reports size, capacity and hit counters.
func (c *ResponseCache) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return domain.CacheStats{
		Size:    c.order.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// Clear removes all entries and resets counters.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.hits = 0
	c.misses = 0
	c.mu.Unlock()

	if c.retriever != nil {
		for _, key := range keys {
			c.forgetCompanion(key)
		}
	}
}

func (c *ResponseCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

// nearestCachedKey asks the retrieval engine for the most similar
// previously cached question.
func (c *ResponseCache) nearestCachedKey(normalised string) (string, bool) {
	results, err := c.retriever.Search(context.Background(), normalised, 1, &domain.Filter{
		DocType: cachedQuestionDocType,
	})
	if err != nil || len(results) == 0 {
		return "", false
	}

	best := results[0]
	if best.Score < c.threshold {
		return "", false
	}
	return best.Document.Metadata["cache_key"], best.Document.Metadata["cache_key"] != ""
}

// indexCompanion records the normalised question in the engine so
// future near-duplicate queries can find this entry.
func (c *ResponseCache) indexCompanion(key, normalised string) {
	_, err := c.retriever.Ingest(context.Background(), &domain.Document{
		ID:       companionID(key),
		Content:  normalised,
		DocType:  cachedQuestionDocType,
		Metadata: map[string]string{"cache_key": key},
	})
	if err != nil {
		logger.Debug("Cache companion ingest failed: %v", err)
	}
}

// forgetCompanion removes the companion document for an evicted entry.
func (c *ResponseCache) forgetCompanion(key string) {
	if err := c.retriever.Delete(context.Background(), companionID(key)); err != nil {
		logger.Debug("Cache companion delete failed: %v", err)
	}
}

func companionID(key string) string {
	return "cacheq-" + key
}

// normaliseQuery lowercases, strips punctuation, drops stop words and
// collapses whitespace so near-identical phrasings share a key.
func normaliseQuery(query string) string {
	tokens := strings.Fields(strings.Map(foldQueryRune, query))

	kept := tokens[:0]
	for _, token := range tokens {
		if _, skip := stopWords[token]; skip {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}

// foldQueryRune lowercases letters and digits and blanks everything else.
func foldQueryRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return unicode.ToLower(r)
	}
	return ' '
}

// cacheKey digests the normalised query into a fixed-length key.
func cacheKey(normalised string) string {
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:16])
}
