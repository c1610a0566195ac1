// Package cache provides a small read-through cache on Redis.
// All helpers tolerate a nil client so the server can run without Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewClient connects to Redis from a URL such as redis://localhost:6379/0.
// It returns nil when the URL is empty or the server is unreachable; callers
// fall back to uncached reads.
func NewClient(ctx context.Context, redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid redis url, running without cache")
		return nil
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, running without cache")
		_ = client.Close()
		return nil
	}

	return client
}

// Key builds a namespaced cache key: sihati:<section>:<parts...>.
func Key(section string, parts ...string) string {
	elems := append([]string{"sihati", section}, parts...)
	return strings.Join(elems, ":")
}

// GetJSON reads key into dest. It returns false on a miss, on a nil client,
// or when the stored value cannot be decoded.
func GetJSON(ctx context.Context, client *redis.Client, key string, dest any) bool {
	if client == nil {
		return false
	}

	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry corrupt, dropping")
		client.Del(ctx, key)
		return false
	}

	return true
}

// SetJSON stores value under key with a TTL. Failures are logged, not returned:
// the cache is an optimization, never a source of truth.
func SetJSON(ctx context.Context, client *redis.Client, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}

	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate removes every key matching pattern, e.g. sihati:planning:*.
func Invalidate(ctx context.Context, client *redis.Client, pattern string) {
	if client == nil {
		return
	}

	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			log.Warn().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
		}
	}
}

// GetOrLoad returns the cached value for key, or calls load, caches the
// result and returns it.
func GetOrLoad[T any](ctx context.Context, client *redis.Client, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if GetJSON(ctx, client, key, &cached) {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load %s: %w", key, err)
	}

	SetJSON(ctx, client, key, value, ttl)
	return value, nil
}
