package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize bounds the in-process cache
const DefaultMemorySize = 1024

type memoryEntry struct {
	version   string
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache with per-entry expiry. It serves
// single-instance deployments where Redis is not configured.
type MemoryCache struct {
	lru *expirable.LRU[string, *memoryEntry]
	now func() time.Time
}

// NewMemoryCache creates a cache holding at most size entries. maxTTL caps
// how long any entry can live regardless of the TTL passed to Set.
func NewMemoryCache(size int, maxTTL time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, *memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

// Get implements Cache
func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	entry, found := c.lru.Get(key)
	if !found {
		return false, nil
	}

	if entry.version != SchemaVersion || !c.now().Before(entry.expiresAt) {
		c.lru.Remove(key)
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		c.lru.Remove(key)
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache
func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	c.lru.Add(key, &memoryEntry{
		version:   SchemaVersion,
		data:      data,
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

// Invalidate implements Cache
func (c *MemoryCache) Invalidate(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.lru.Remove(key)
	}
	return nil
}

// Len returns the number of live entries
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.lru.Purge()
}
