package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/mechanicfinder/internal/domain/providers"
	redisclient "github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/redis"
)

const keyPrefix = "ratelimit:"

// RedisAdapter implements a fixed-window RateLimiter on top of INCR and EXPIRE
type RedisAdapter struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisAdapter creates a new Redis rate limiter
func NewRedisAdapter(client *redisclient.Client) providers.RateLimiter {
	return newRedisAdapter(client.Client(), time.Now)
}

func newRedisAdapter(client redis.Cmdable, now func() time.Time) *RedisAdapter {
	return &RedisAdapter{client: client, now: now}
}

// windowKey names the counter for the window containing the current time
func (a *RedisAdapter) windowKey(key string, window time.Duration) string {
	start := a.now().UnixNano() / int64(window)
	return fmt.Sprintf("%s%s:%d", keyPrefix, key, start)
}

// Allow increments the window counter, setting its expiry on first use
func (a *RedisAdapter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	if window <= 0 {
		return false, 0, fmt.Errorf("rate limit window must be positive")
	}
	k := a.windowKey(key, window)

	pipe := a.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= limit, remaining, nil
}
