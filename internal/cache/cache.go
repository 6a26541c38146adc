package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const UserCacheTTL = 1 * time.Hour

// Cache is a byte-oriented key/value cache. A nil value with a nil error
// from Get is a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data interface{}) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get value from cache
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set value as JSON with the cache TTL
func (c *RedisCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, c.ttl).Err()
}

// NopCache is used when no Redis server is configured; every Get misses.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (NopCache) Set(context.Context, string, interface{}) error { return nil }

// UserKey builds the cache key for a single user.
func UserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// UserStatsKey builds the key of a user's activity totals hash.
func UserStatsKey(userID string) string {
	return fmt.Sprintf("stats:user:%s", userID)
}

// UserStatsSeenKey builds the key of the set of exercise ids already counted
// in a user's totals.
func UserStatsSeenKey(userID string) string {
	return fmt.Sprintf("stats:user:%s:seen", userID)
}
