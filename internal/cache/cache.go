package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hvaldez/garage/internal/product"
)

// Redis caches product listings as JSON blobs with a TTL. Every operation is
// best effort: a Redis hiccup degrades to a cache miss, never to a request
// failure.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) GetProducts(ctx context.Context, key string) ([]*product.Product, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache read failed", "key", key, "error", err)
		}

		return nil, false
	}

	var products []*product.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}

	return products, true
}

func (c *Redis) SetProducts(ctx context.Context, key string, products []*product.Product) {
	payload, err := json.Marshal(products)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops every key under the given prefix. SCAN keeps the walk
// incremental so a large keyspace does not block the server.
func (c *Redis) Invalidate(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+":*", 0).Iterator()

	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		slog.Warn("cache scan failed", "prefix", prefix, "error", err)
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "prefix", prefix, "error", err)
	}
}
