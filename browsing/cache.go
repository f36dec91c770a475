package browsing

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long search responses stay fresh.
const DefaultCacheTTL = 30 * time.Minute

type cacheKey struct {
	query      string
	maxResults int
}

type cacheEntry struct {
	results  []Result
	storedAt time.Time
}

// resultCache memoizes search responses per (query, maxResults) pair with a
// fixed TTL. Expired entries are overwritten on the next store; there is no
// background eviction.
type resultCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &resultCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *resultCache) get(query string, maxResults int) ([]Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[cacheKey{query, maxResults}]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.results, true
}

func (c *resultCache) put(query string, maxResults int, results []Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{query, maxResults}] = cacheEntry{results: results, storedAt: c.now()}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
