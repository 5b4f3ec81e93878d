package quote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
)

// Cache memoizes computed quotes by key.
type Cache interface {
	Get(ctx context.Context, key string) (pricing.Quote, bool, error)
	Set(ctx context.Context, key string, q pricing.Quote) error
	Close() error
}

// NopCache never stores anything.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(context.Context, string) (pricing.Quote, bool, error) {
	return pricing.Quote{}, false, nil
}

// Set discards the quote.
func (NopCache) Set(context.Context, string, pricing.Quote) error { return nil }

// Close does nothing.
func (NopCache) Close() error { return nil }

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisCache stores quotes as JSON in Redis with a fixed TTL.
type RedisCache struct {
	rdb redisClient
	ttl time.Duration
}

// NewRedisCache connects to the Redis server at addr.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return newRedisCache(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

func newRedisCache(rdb redisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached quote for key. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) (pricing.Quote, bool, error) {
	data, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return pricing.Quote{}, false, nil
	}
	if err != nil {
		return pricing.Quote{}, false, err
	}

	var q pricing.Quote
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return pricing.Quote{}, false, err
	}
	return q, true, nil
}

// Set stores q under key.
func (c *RedisCache) Set(ctx context.Context, key string, q pricing.Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
