package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants per upstream endpoint
const (
	ScoreboardTTL = 2 * time.Minute
	TeamTTL       = 30 * time.Minute
	StatisticsTTL = 1 * time.Hour
	ScheduleTTL   = 1 * time.Hour
	InjuriesTTL   = 15 * time.Minute
)

// Cache is a TTL response cache with prefix invalidation
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) (int, error)
}

// Key builds a cache key from an endpoint and its params, sorted so that
// param order never changes the key
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = url.QueryEscape(name) + "=" + url.QueryEscape(params[name])
	}
	return endpoint + "?" + strings.Join(parts, "&")
}

// RedisCache stores responses in Redis under a namespace
type RedisCache struct {
	client    *redis.Client
	namespace string
}

// NewRedisCache creates a Redis-backed cache. Keys are stored as "{namespace}:{key}".
func NewRedisCache(client *redis.Client, namespace string) *RedisCache {
	return &RedisCache{
		client:    client,
		namespace: namespace,
	}
}

func (c *RedisCache) key(k string) string {
	return fmt.Sprintf("%s:%s", c.namespace, k)
}

// Get returns the cached value, reporting a miss as (nil, false, nil)
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores a value with a TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("writing cache %s: %w", key, err)
	}
	return nil
}

// InvalidatePrefix deletes every key starting with prefix and returns how many were removed
func (c *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := c.key(prefix) + "*"
	removed := 0

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scanning %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("deleting keys: %w", err)
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
