package profile

import (
	"sync"
	"time"
)

// Cache is a best-effort, non-authoritative store for resolved profiles.
// Never the source of truth for role data.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemCache is a TTL map cache guarded by a mutex.
type MemCache struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]memEntry
}

type memEntry struct {
	value string
	at    time.Time
}

func NewMemCache(ttl time.Duration) *MemCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemCache{ttl: ttl, m: make(map[string]memEntry)}
}

func (c *MemCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// GC expired entries
	cut := time.Now().Add(-c.ttl)
	for k, e := range c.m {
		if e.at.Before(cut) {
			delete(c.m, k)
		}
	}
	e, ok := c.m[key]
	if !ok {
		return "", false
	}
	return e.value, true
}

func (c *MemCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = memEntry{value: value, at: time.Now()}
}

func (c *MemCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}
