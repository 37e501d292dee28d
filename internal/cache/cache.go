// Package cache stores rendered feed entries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"pinax-social-backend/internal/config"
)

// Cache is a byte-oriented key/value cache with expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisCache implements Cache for Redis
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Ping checks the connection at startup
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// NoopCache never stores anything; used when Redis is disabled
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (NoopCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return nil
}
func (NoopCache) Delete(ctx context.Context, keys ...string) error { return nil }

// GetJSON decodes a cached JSON value into dest. It reports false on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dest any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached value %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value encoded as JSON
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}

func FeedEntriesKey(feedID int32) string { return fmt.Sprintf("feeds:%d:entries", feedID) }
func UserStreamKey(ownerID int32) string { return fmt.Sprintf("feeds:user:%d:stream", ownerID) }
