package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is a process-local TTL cache over go-cache. Values are
// opaque byte slices; the aggregation engine stores marshaled CHI
// results under CHIKey strings.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a memory cache. A non-positive defaultTTL
// falls back to the five-minute CHI default, and a non-positive cleanup
// interval sweeps at twice the TTL.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 2 * defaultTTL
	}
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the bytes stored under key, if present and unexpired
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

// Set stores value under key. A non-positive ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, value, ttl)
	return nil
}

// Delete drops the entry under key, if any
func (c *MemoryCache) Delete(key string) error {
	c.store.Delete(key)
	return nil
}

// Clear drops every entry
func (c *MemoryCache) Clear() error {
	c.store.Flush()
	return nil
}
