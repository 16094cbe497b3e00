package client

import (
	"sync"
	"time"
)

// responseCache keeps raw response bodies keyed by request. Bodies are
// decoded on every hit so callers never share a decoded value.
type responseCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	now   func() time.Time
}

type cacheItem struct {
	body      []byte
	expiresAt time.Time
}

func newResponseCache(now func() time.Time) *responseCache {
	return &responseCache{
		items: make(map[string]cacheItem),
		now:   now,
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.body, true
}

func (c *responseCache) set(key string, body []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{
		body:      append([]byte(nil), body...),
		expiresAt: c.now().Add(ttl),
	}
}

func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem)
}

func (c *responseCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
