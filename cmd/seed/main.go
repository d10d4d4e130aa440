package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/mechanicfinder/internal/adapters/database"
	"github.com/zatekoja/mechanicfinder/internal/application/services"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/observability"
	"github.com/zatekoja/mechanicfinder/internal/seed"
	"github.com/zatekoja/mechanicfinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("mechanic-finder-seed", cfg.App.Env, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer client.Close()

	if err := client.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	if cfg.Seed.Reset {
		log.Warn().Msg("RESET_DB=true detected, truncating tables before seeding")
		if err := client.Truncate(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	timeout := cfg.Database.QueryTimeout()
	result, err := seed.Load(ctx, seed.Services{
		Mechanics: services.NewMechanicService(database.NewMechanicAdapter(client), timeout, nil),
		Catalog:   services.NewCatalogService(database.NewServiceAdapter(client), database.NewOfferingAdapter(client), timeout, nil),
		Reviews:   services.NewReviewService(database.NewReviewAdapter(client), database.NewBookingAdapter(client), timeout, nil),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	if result.Skipped {
		log.Info().Msg("nothing to do, set RESET_DB=true to reseed")
	}
}
