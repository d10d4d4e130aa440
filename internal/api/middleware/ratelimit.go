package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/zatekoja/mechanicfinder/internal/domain/providers"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
)

// RateLimitOptions configures the per-client request budget
type RateLimitOptions struct {
	Limit  int
	Window time.Duration
	// Route resolves the route label recorded for rejected requests
	Route func(*http.Request) string
	// Skip exempts requests, such as health probes, from counting
	Skip func(*http.Request) bool
}

// clientIP returns the host part of the remote address
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects clients that exceed the budget with 429. Limiter errors
// let the request through.
func RateLimit(limiter providers.RateLimiter, opts RateLimitOptions, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Skip != nil && opts.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			allowed, remaining, err := limiter.Allow(ctx, clientIP(r), opts.Limit, opts.Window)
			if err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(opts.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				route := r.URL.Path
				if opts.Route != nil {
					route = opts.Route(r)
				}
				observability.RecordRateLimited(ctx, metrics, route)

				w.Header().Set("Retry-After", strconv.Itoa(int(opts.Window.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
