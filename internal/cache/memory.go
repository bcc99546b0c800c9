package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds encoded sections for the life of the process. A zero
// TTL on Set means the cache-wide default.
type MemoryCache struct {
	entries *gocache.Cache
}

// NewMemoryCache creates a memory layer; expired sections are swept every
// cleanupInterval
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{entries: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the stored section bytes
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	v, found := c.entries.Get(key)
	if !found {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

// Set stores a private copy of value, so later writes to the caller's
// buffer never change a cached section
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.entries.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete drops one key
func (c *MemoryCache) Delete(key string) error {
	c.entries.Delete(key)
	return nil
}

// Clear drops every key
func (c *MemoryCache) Clear() error {
	c.entries.Flush()
	return nil
}

// Len counts the unexpired entries
func (c *MemoryCache) Len() int {
	return c.entries.ItemCount()
}
