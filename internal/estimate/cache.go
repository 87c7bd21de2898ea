package estimate

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/donaldgifford/bluberry/internal/metrics"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

// DefaultCacheTTL is how long a cached estimate stays valid.
const DefaultCacheTTL = 6 * time.Hour

// GenerateKey builds a deterministic fingerprint: params sorted by name,
// query-escaped as k=v&k=v and prefixed with kind.
func GenerateKey(kind string, params map[string]string) string {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return kind + ":" + values.Encode()
}

// Cache stores estimates by fingerprint. Implementations are best-effort:
// failures degrade to a miss and are never returned.
type Cache interface {
	Get(ctx context.Context, key string) (domain.PriceEstimate, bool)
	Put(ctx context.Context, key string, value domain.PriceEstimate)
}

// CacheEntry is a cached estimate and the time it was stored.
type CacheEntry struct {
	Key       string
	Value     domain.PriceEstimate
	CreatedAt time.Time
}

// MemoryCache is a process-wide in-memory Cache with lazy expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithCacheClock overrides the clock, for tests.
func WithCacheClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates a MemoryCache. A non-positive ttl uses DefaultCacheTTL.
func NewMemoryCache(ttl time.Duration, opts ...MemoryCacheOption) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &MemoryCache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for key if it is younger than the TTL. Expired
// entries are deleted on access.
func (c *MemoryCache) Get(_ context.Context, key string) (domain.PriceEstimate, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.PriceEstimate{}, false
	}

	if c.now().Sub(entry.CreatedAt) >= c.ttl {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.CreatedAt.Equal(entry.CreatedAt) {
			delete(c.entries, key)
		}
		metrics.CacheEntries.Set(float64(len(c.entries)))
		c.mu.Unlock()
		return domain.PriceEstimate{}, false
	}

	return entry.Value, true
}

// Put stores value under key with the current time, overwriting any entry.
func (c *MemoryCache) Put(_ context.Context, key string, value domain.PriceEstimate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = CacheEntry{Key: key, Value: value, CreatedAt: c.now()}
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune deletes every expired entry and returns how many were removed.
func (c *MemoryCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.CreatedAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	metrics.CacheEntries.Set(float64(len(c.entries)))
	return removed
}
