//go:build integration

package estimate_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/bluberry/internal/estimate"
	domain "github.com/donaldgifford/bluberry/pkg/types"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminating redis container: %v", err)
		}
	})

	endpoint, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisCache_Integration(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	c := estimate.NewRedisCache(client, time.Hour, estimate.WithRedisKeyPrefix("test:"))
	require.NoError(t, c.Ping(ctx))

	want := domain.PriceEstimate{
		Price:          195,
		PriceRangeLow:  165,
		PriceRangeHigh: 225,
		Currency:       "USD",
		Confidence:     domain.ConfidenceHigh,
		Source:         domain.SourceMarketplaceLLM,
		Reasoning:      "between comparables",
		ReferenceCount: 2,
	}

	t.Run("miss before put", func(t *testing.T) {
		_, ok := c.Get(ctx, "price:name=iphone 11")
		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		c.Put(ctx, "price:name=iphone 11", want)
		got, ok := c.Get(ctx, "price:name=iphone 11")
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("ttl is set", func(t *testing.T) {
		ttl, err := client.TTL(ctx, "test:price:name=iphone 11").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("undecodable entry is a miss", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "test:broken", "not json", time.Minute).Err())
		_, ok := c.Get(ctx, "broken")
		assert.False(t, ok)
	})

	t.Run("shared between services", func(t *testing.T) {
		other := estimate.NewRedisCache(client, time.Hour, estimate.WithRedisKeyPrefix("test:"))
		got, ok := other.Get(ctx, "price:name=iphone 11")
		require.True(t, ok)
		assert.Equal(t, want.Price, got.Price)
	})
}
