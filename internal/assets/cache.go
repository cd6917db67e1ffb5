package assets

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// CacheStats reports cache usage.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Cache memoizes resolved assets by path. Failed lookups are not cached.
// Cached assets are shared and must not be modified.
type Cache struct {
	resolver interfaces.AssetResolver
	mu       sync.RWMutex
	entries  map[string]*interfaces.Asset
	hits     uint64
	misses   uint64
}

var _ interfaces.AssetResolver = (*Cache)(nil)

// NewCache wraps resolver.
func NewCache(resolver interfaces.AssetResolver) *Cache {
	return &Cache{resolver: resolver, entries: map[string]*interfaces.Asset{}}
}

func (c *Cache) Resolve(ctx context.Context, language, folder, filename string) (*interfaces.Asset, error) {
	key, err := Path(language, folder, filename)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if asset, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return asset, nil
	}
	c.misses++
	c.mu.Unlock()

	asset, err := c.resolver.Resolve(ctx, language, folder, filename)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = asset
	c.mu.Unlock()
	return asset, nil
}

// Invalidate drops the entry for rel and every entry below it when rel is a
// directory.
func (c *Cache) Invalidate(rel string) int {
	rel = strings.Trim(rel, "/")
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key := range c.entries {
		if key == rel || strings.HasPrefix(key, rel+"/") {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]*interfaces.Asset{}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
