package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ RateLimiter = (*RedisRateLimiter)(nil)

const rateLimitKeyPrefix = "passbridge:ratelimit:"

type RedisConfig struct {
	Client *redis.Client
	// Limit is the number of requests allowed per Window.
	Limit  int
	Window time.Duration
}

// RedisRateLimiter shares its sliding windows across every bridge replica.
type RedisRateLimiter struct {
	client *redis.Client
	params rateLimitParams
}

func NewRedisRateLimiter(cfg RedisConfig) *RedisRateLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Second
	}
	return &RedisRateLimiter{
		client: cfg.Client,
		params: rateLimitParams{
			window: window,
			limit:  cfg.Limit,
			ttl:    window + time.Second,
		},
	}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	allowed, err := runRateLimitScript(ctx, r.client, rateLimitKeyPrefix+key, r.params)
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return RateLimitResult{
		Allowed:    allowed,
		RetryAfter: r.params.window,
	}, nil
}

func (r *RedisRateLimiter) Close() error {
	return r.client.Close()
}

func (r *RedisRateLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
