package routes

import (
	"net/http"
	"time"

	"github.com/zatekoja/mechanicfinder/internal/api/handlers"
	"github.com/zatekoja/mechanicfinder/internal/api/middleware"
	"github.com/zatekoja/mechanicfinder/internal/domain/providers"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
)

// Options configures the middleware chain
type Options struct {
	AllowedOrigins []string
	// RateLimiter is nil when Redis is not configured
	RateLimiter     providers.RateLimiter
	RateLimit       int
	RateLimitWindow time.Duration
	Metrics         *observability.Metrics
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	mechanicHandler *handlers.MechanicHandler
	serviceHandler  *handlers.ServiceHandler
	health          handlers.Pinger

	opts Options
}

// NewRouter creates a new router
func NewRouter(
	mechanicHandler *handlers.MechanicHandler,
	serviceHandler *handlers.ServiceHandler,
	health handlers.Pinger,
	opts Options,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		mechanicHandler: mechanicHandler,
		serviceHandler:  serviceHandler,
		health:          health,
		opts:            opts,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", handlers.Health(r.health))

	// Mechanic endpoints
	r.mux.HandleFunc("GET /api/mechanics/nearby", r.mechanicHandler.SearchNearby)
	r.mux.HandleFunc("GET /api/mechanics/{id}", r.mechanicHandler.GetMechanic)

	// Service catalog
	r.mux.HandleFunc("GET /api/services", r.serviceHandler.ListServices)

	// Placeholders
	r.mux.HandleFunc("POST /api/auth/register", handlers.NotImplemented("registration"))
	r.mux.HandleFunc("POST /api/auth/login", handlers.NotImplemented("login"))
	r.mux.HandleFunc("GET /api/bookings", handlers.NotImplemented("booking list"))
	r.mux.HandleFunc("POST /api/bookings", handlers.NotImplemented("booking creation"))
	r.mux.HandleFunc("GET /api/bookings/{id}", handlers.NotImplemented("booking lookup"))
	r.mux.HandleFunc("GET /api/customers/me", handlers.NotImplemented("customer profile"))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.RateLimit(r.opts.RateLimiter, middleware.RateLimitOptions{
		Limit:  r.opts.RateLimit,
		Window: r.opts.RateLimitWindow,
		Route:  r.route,
		Skip:   func(req *http.Request) bool { return req.URL.Path == "/health" },
	}, r.opts.Metrics)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Observability(r.opts.Metrics)(handler)
	handler = middleware.CacheControl(handler)
	handler = middleware.Compression(handler)

	// CORS wraps everything so preflight never reaches the limiter
	handler = middleware.CORS(r.opts.AllowedOrigins)(handler)

	return handler
}

// route resolves the pattern a request would match without serving it
func (r *Router) route(req *http.Request) string {
	if _, pattern := r.mux.Handler(req); pattern != "" {
		return pattern
	}
	return req.URL.Path
}
