package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"tapgame-backend/internal/common/config"
	"tapgame-backend/internal/common/logger"
	"tapgame-backend/internal/platform/postgres"
)

// Applies the embedded schema migrations and exits. Useful when DB_AUTO_MIGRATE is off.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	logger.Init("tapgame-migrate", cfg.Debug)

	pg, err := postgres.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	logger.Info().Msg("Migrations applied")
}
