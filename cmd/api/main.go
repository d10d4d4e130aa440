package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/mechanicfinder/internal/adapters/database"
	"github.com/zatekoja/mechanicfinder/internal/adapters/memory"
	"github.com/zatekoja/mechanicfinder/internal/adapters/ratelimit"
	"github.com/zatekoja/mechanicfinder/internal/api/handlers"
	"github.com/zatekoja/mechanicfinder/internal/api/routes"
	"github.com/zatekoja/mechanicfinder/internal/application/services"
	"github.com/zatekoja/mechanicfinder/internal/domain/providers"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/redis"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
	"github.com/zatekoja/mechanicfinder/internal/seed"
	"github.com/zatekoja/mechanicfinder/pkg/config"
)

// storage is the set of repositories behind one driver
type storage struct {
	mechanics repositories.MechanicRepository
	services  repositories.ServiceRepository
	offerings repositories.OfferingRepository
	reviews   repositories.ReviewRepository
	bookings  repositories.BookingRepository
	health    handlers.Pinger
	close     func() error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		log.Info().Msg("using in-memory storage")
		return &storage{
			mechanics: memory.NewMechanicAdapter(store),
			services:  memory.NewServiceAdapter(store),
			offerings: memory.NewOfferingAdapter(store),
			reviews:   memory.NewReviewAdapter(store),
			bookings:  memory.NewBookingAdapter(store),
			health:    store,
			close:     func() error { return nil },
		}, nil

	default:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Database.RunMigrations {
			if err := client.Migrate(ctx); err != nil {
				client.Close()
				return nil, err
			}
		}
		if err := client.CheckSchema(ctx); err != nil {
			client.Close()
			return nil, err
		}
		return &storage{
			mechanics: database.NewMechanicAdapter(client),
			services:  database.NewServiceAdapter(client),
			offerings: database.NewOfferingAdapter(client),
			reviews:   database.NewReviewAdapter(client),
			bookings:  database.NewBookingAdapter(client),
			health:    client,
			close:     client.Close,
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.App.StorageDriver).Msg("failed to initialize storage")
	}
	defer store.close()

	// Rate limiting needs Redis; the API runs without it
	var limiter providers.RateLimiter
	if cfg.RateLimit.Enabled && cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiting disabled, Redis unavailable")
		} else {
			defer redisClient.Close()
			limiter = ratelimit.NewRedisAdapter(redisClient)
		}
	}

	timeout := cfg.Database.QueryTimeout()
	mechanicService := services.NewMechanicService(store.mechanics, timeout, metrics)
	catalogService := services.NewCatalogService(store.services, store.offerings, timeout, metrics)
	reviewService := services.NewReviewService(store.reviews, store.bookings, timeout, metrics)

	if cfg.Seed.OnStartup {
		if _, err := seed.Load(ctx, seed.Services{
			Mechanics: mechanicService,
			Catalog:   catalogService,
			Reviews:   reviewService,
		}); err != nil {
			log.Fatal().Err(err).Msg("failed to seed storage")
		}
	}

	responder := handlers.ErrorResponder{ExposeDetails: cfg.App.IsDevelopment()}
	router := routes.NewRouter(
		handlers.NewMechanicHandler(mechanicService, responder),
		handlers.NewServiceHandler(catalogService, responder),
		store.health,
		routes.Options{
			AllowedOrigins:  cfg.App.AllowedOrigins,
			RateLimiter:     limiter,
			RateLimit:       cfg.RateLimit.Requests,
			RateLimitWindow: cfg.RateLimit.Window(),
			Metrics:         metrics,
		},
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", serverAddr).Str("env", cfg.App.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("server stopped")
}
