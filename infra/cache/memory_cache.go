package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/amirasaad/ratesync/pkg/cache"
)

// MemoryCache implements CurrencyCache using in-memory storage.
// Expired entries are dropped on read.
type MemoryCache struct {
	entries map[string]cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

type cacheEntry struct {
	codes     []string
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

var _ cache.CurrencyCache = (*MemoryCache)(nil)

// Get returns a copy of the cached codes for key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]string, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return slices.Clone(entry.codes), true, nil
}

// Set stores codes under key. A zero ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, codes []string, ttl time.Duration) error {
	entry := cacheEntry{codes: slices.Clone(codes)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}

// Delete removes key from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
