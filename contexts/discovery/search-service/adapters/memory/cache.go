package memory

import (
	"sync"
	"time"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
)

// Cache is a process-local TTL cache for search pages. Expired entries are
// dropped lazily on read and on every write once the cache is full.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	maxEntries int
	now        func() time.Time
}

type cacheEntry struct {
	page      entities.ResultPage
	expiresAt time.Time
}

func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Cache{
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (c *Cache) Get(key string) (entities.ResultPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return entities.ResultPage{}, false
	}
	if !entry.expiresAt.After(c.now()) {
		delete(c.entries, key)
		return entities.ResultPage{}, false
	}
	return entry.page, true
}

func (c *Cache) Set(key string, page entities.ResultPage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if len(c.entries) >= c.maxEntries {
		for k, entry := range c.entries {
			if !entry.expiresAt.After(now) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= c.maxEntries {
			c.entries = make(map[string]cacheEntry)
		}
	}
	c.entries[key] = cacheEntry{page: page, expiresAt: now.Add(ttl)}
}

func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
