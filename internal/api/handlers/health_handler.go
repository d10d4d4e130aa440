package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
)

// Pinger is a store that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /health
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := store.Ping(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNAVAILABLE"))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}
