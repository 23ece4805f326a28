// Package cache holds BalanceCache implementations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ledger"

// RedisBalanceCache stores read models as JSON under a per-(organization, kind) generation.
// Invalidate bumps the generation, which orphans old entries until their TTL expires.
type RedisBalanceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ portssvc.BalanceCache = (*RedisBalanceCache)(nil)

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func NewRedisBalanceCache(client redis.UniversalClient, ttl time.Duration) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, ttl: ttl}
}

func generationKey(organizationID string, kind portssvc.CacheKind) string {
	return fmt.Sprintf("%s:%s:%s:gen", keyPrefix, organizationID, kind)
}

func entryKey(organizationID string, kind portssvc.CacheKind, generation int64, key string) string {
	return fmt.Sprintf("%s:%s:%s:%d:%s", keyPrefix, organizationID, kind, generation, key)
}

func (c *RedisBalanceCache) generation(ctx context.Context, organizationID string, kind portssvc.CacheKind) (int64, error) {
	raw, err := c.client.Get(ctx, generationKey(organizationID, kind)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt cache generation %q: %w", raw, err)
	}
	return gen, nil
}

func (c *RedisBalanceCache) Get(ctx context.Context, organizationID string, kind portssvc.CacheKind, key string, dest any) (bool, error) {
	gen, err := c.generation(ctx, organizationID, kind)
	if err != nil {
		return false, err
	}
	data, err := c.client.Get(ctx, entryKey(organizationID, kind, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return true, nil
}

func (c *RedisBalanceCache) Set(ctx context.Context, organizationID string, kind portssvc.CacheKind, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	gen, err := c.generation(ctx, organizationID, kind)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, entryKey(organizationID, kind, gen, key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (c *RedisBalanceCache) Invalidate(ctx context.Context, organizationID string, kind portssvc.CacheKind) error {
	if err := c.client.Incr(ctx, generationKey(organizationID, kind)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %s cache: %w", kind, err)
	}
	return nil
}
