package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/donaldgifford/bluberry/pkg/types"
)

const defaultRedisKeyPrefix = "bluberry:estimate:"

// RedisCache is a Cache shared between instances through Redis. Entries
// expire through the Redis TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	log    *slog.Logger
}

// RedisCacheOption configures a RedisCache.
type RedisCacheOption func(*RedisCache)

// WithRedisKeyPrefix overrides the key prefix.
func WithRedisKeyPrefix(prefix string) RedisCacheOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

// WithRedisLogger sets a custom logger.
func WithRedisLogger(l *slog.Logger) RedisCacheOption {
	return func(c *RedisCache) {
		c.log = l
	}
}

// NewRedisCache creates a RedisCache. A non-positive ttl uses DefaultCacheTTL.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, opts ...RedisCacheOption) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: defaultRedisKeyPrefix,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached estimate, or a miss on any Redis or decode error.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.PriceEstimate, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PriceEstimate{}, false
	}
	if err != nil {
		c.log.Warn("redis cache get failed", "key", key, "error", err)
		return domain.PriceEstimate{}, false
	}

	var est domain.PriceEstimate
	if err := json.Unmarshal(data, &est); err != nil {
		c.log.Warn("redis cache entry undecodable", "key", key, "error", err)
		return domain.PriceEstimate{}, false
	}
	return est, true
}

// Put stores value with the cache TTL. Errors are logged and dropped.
func (c *RedisCache) Put(ctx context.Context, key string, value domain.PriceEstimate) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn("redis cache put failed", "key", key, "error", err)
	}
}

// Ping checks connectivity to Redis.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
