package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "recordgrid"

// RedisCache shares pages between console instances.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) Generation(ctx context.Context, route string) (uint64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(route)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis generation %s: %w", route, err)
	}
	return gen, nil
}

func (c *RedisCache) Get(ctx context.Context, route string, gen uint64, key string) ([]byte, bool, error) {
	pageKey := c.pageKey(route, gen, key)
	v, err := c.client.Get(ctx, pageKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", pageKey, err)
	}
	return v, true, nil
}

// Set writes under gen even when it is stale; stale generations are never
// read again and expire with the ttl.
func (c *RedisCache) Set(ctx context.Context, route string, gen uint64, key string, value []byte) error {
	pageKey := c.pageKey(route, gen, key)
	if err := c.client.Set(ctx, pageKey, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", pageKey, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, route string) error {
	if err := c.client.Incr(ctx, c.generationKey(route)).Err(); err != nil {
		return fmt.Errorf("redis invalidate %s: %w", route, err)
	}
	return nil
}

func (c *RedisCache) generationKey(route string) string {
	return c.prefix + ":gen:" + route
}

func (c *RedisCache) pageKey(route string, gen uint64, key string) string {
	return fmt.Sprintf("%s:page:%s:%d:%s", c.prefix, route, gen, key)
}
