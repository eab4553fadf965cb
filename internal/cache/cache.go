// Package cache provides an optional Redis-backed response cache for the
// read API. When Redis is not configured the Noop implementation keeps every
// caller on the fallthrough path.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fits-community/fits-tracker/internal/config"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

// Cache is the response cache surface used by the read API.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Redis is a Cache backed by a Redis instance.
type Redis struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg *config.CacheConfig, log *logger.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("Connected to Redis")

	return &Redis{client: client, log: log}, nil
}

// NewRedisWithClient wraps an existing client (useful for testing).
func NewRedisWithClient(client *redis.Client, log *logger.Logger) *Redis {
	return &Redis{client: client, log: log}
}

// Get retrieves a cached value. A miss returns "" with no error.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value with a TTL.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Del removes keys.
func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop is a Cache that stores nothing. Every Get is a miss.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) (string, error) { return "", nil }

// Set discards the value.
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }

// Del does nothing.
func (Noop) Del(context.Context, ...string) error { return nil }
