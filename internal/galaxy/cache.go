package galaxy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const cacheKeyPrefix = "galaxy:cloud:"

// Cache stores seeded clouds. Unseeded clouds are never reproducible, so they
// are never cached.
type Cache interface {
	Get(ctx context.Context, key string) (*PointCloud, bool, error)
	Set(ctx context.Context, key string, cloud *PointCloud, ttl time.Duration) error
}

// CacheKey returns the key for p and whether p is cacheable at all.
func CacheKey(p Parameters) (string, bool) {
	if p.Seed == nil {
		return "", false
	}
	return fmt.Sprintf("%s%016x", cacheKeyPrefix, xxhash.Sum64String(p.canonical())), true
}

type memoryEntry struct {
	cloud     *PointCloud
	expiresAt time.Time
}

// MemoryCache is the fallback when Redis is disabled. It holds at most
// maxEntries clouds and evicts the one closest to expiry when full.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*PointCloud, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.cloud, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, cloud *PointCloud, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = memoryEntry{cloud: cloud, expiresAt: now.Add(ttl)}
	return nil
}

func (c *MemoryCache) evictLocked(now time.Time) {
	var victim string
	var soonest time.Time
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			continue
		}
		if victim == "" || entry.expiresAt.Before(soonest) {
			victim, soonest = key, entry.expiresAt
		}
	}
	if len(c.entries) >= c.maxEntries && victim != "" {
		delete(c.entries, victim)
	}
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
