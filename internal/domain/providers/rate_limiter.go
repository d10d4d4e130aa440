package providers

import (
	"context"
	"time"
)

// RateLimiter counts requests per key over a fixed window
type RateLimiter interface {
	// Allow records one request for key and reports whether it fits within
	// limit for the current window, along with the requests left in it.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, err error)
}
