package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tapgame-backend/internal/common/config"
	"tapgame-backend/internal/common/logger"
	"tapgame-backend/internal/common/metrics"
	"tapgame-backend/internal/common/middleware"
	"tapgame-backend/internal/common/tgauth"
	"tapgame-backend/internal/features/game/repository"
	gamepg "tapgame-backend/internal/features/game/repository/postgres"
	gameredis "tapgame-backend/internal/features/game/repository/redis"
	gameservice "tapgame-backend/internal/features/game/service"
	webhookservice "tapgame-backend/internal/features/webhook/service"
	apphttp "tapgame-backend/internal/http"
	"tapgame-backend/internal/platform/postgres"
	"tapgame-backend/internal/platform/redis"
	"tapgame-backend/internal/platform/telegram"
)

// @title           Tap Game API
// @version         1.0
// @description     Backend of the Telegram tap-to-earn game. Game endpoints require Telegram WebApp initData.

// @BasePath  /api

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init
// @description Telegram WebApp initData string

// @tag.name game
// @tag.description Player state, taps, upgrades, city and leaderboard

// @tag.name telegram
// @tag.description Bot API webhook

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger.Init("tapgame-backend", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting tap game backend")

	pg, err := postgres.NewClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if cfg.Postgres.AutoMigrate {
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	var (
		leaderboard repository.LeaderboardRepository
		redisHealth apphttp.HealthChecker
	)
	rdb, err := redis.Open(ctx, cfg)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		logger.Warn().Msg("REDIS_ADDR is not set, leaderboard disabled")
	case err != nil:
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	default:
		defer rdb.Close()
		leaderboard = gameredis.NewLeaderboardRepository(rdb, "")
		redisHealth = rdb
	}

	bot, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	logger.Info().Str("bot", bot.Username()).Msg("Telegram bot authorized")

	verifier, err := tgauth.NewVerifier(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize init data verifier")
	}

	m := metrics.New()
	gameSvc := gameservice.NewGameService(gamepg.NewPostgresRepository(pg.GetDB()), leaderboard, bot, m)
	webhookSvc := webhookservice.NewWebhookService(bot, cfg.Telegram.GameShortName, cfg.PublicFrontendURL(), m)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiter.StartCleanup(ctx, 10*time.Minute)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := apphttp.NewRouter(apphttp.Dependencies{
		Config:      cfg,
		Auth:        verifier,
		Game:        gameSvc,
		Webhook:     webhookSvc,
		Metrics:     m,
		RateLimiter: limiter,
		Postgres:    pg,
		Redis:       redisHealth,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
