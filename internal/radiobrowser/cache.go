package radiobrowser

import (
	"sync"
	"time"
)

// cacheEntry pairs a response payload with its capture time.
type cacheEntry struct {
	data []byte
	at   time.Time
}

// responseCache is a TTL-bounded response cache keyed by endpoint plus encoded
// query. Entries are invalidated lazily on lookup; nothing sweeps the map, so
// it is unbounded and lives for the process.
type responseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.at) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.data, true
}

func (c *responseCache) put(key string, data []byte) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, at: time.Now()}
	c.mu.Unlock()
}
