package http

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tapgame-backend/docs"
	"tapgame-backend/internal/common/config"
	apperrors "tapgame-backend/internal/common/errors"
	"tapgame-backend/internal/common/metrics"
	"tapgame-backend/internal/common/middleware"
	gamehttp "tapgame-backend/internal/features/game/delivery/http"
	gameservice "tapgame-backend/internal/features/game/service"
	webhookhttp "tapgame-backend/internal/features/webhook/delivery/http"
	webhookservice "tapgame-backend/internal/features/webhook/service"
)

// HealthChecker is implemented by the Postgres and Redis platform clients.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Dependencies struct {
	Config      *config.Config
	Auth        middleware.Authenticator
	Game        gameservice.GameService
	Webhook     *webhookservice.WebhookService
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
	Postgres    HealthChecker
	// Redis is nil when the leaderboard store is disabled.
	Redis HealthChecker
}

// NewRouter builds the gin engine with middleware, API routes, the bot webhook and the static frontend.
func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(d.Metrics))
	router.Use(cors.New(corsConfig(d.Config.Server.CORSOrigins)))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", health(d.Postgres))
	router.GET("/ready", ready(d.Postgres, d.Redis))
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	if d.Config.Debug {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api",
		middleware.InitDataAuth(d.Auth),
		d.RateLimiter.Handler(),
		middleware.EnsurePlayer(d.Game),
	)
	gamehttp.NewGameHandler(d.Game).RegisterRoutes(api)

	webhookhttp.NewWebhookHandler(d.Webhook, d.Config.Telegram.WebhookSecret).RegisterRoutes(router)

	router.NoRoute(frontend(d.Config.Server.FrontendDir))

	return router
}

// corsConfig allows the configured origins with credentials. Requests without Origin
// (the Telegram in-app webview) are not CORS requests and pass untouched.
func corsConfig(origins []string) cors.Config {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			_, ok := allowed[origin]
			return ok
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.InitDataHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func health(pg HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pg.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func ready(pg, rdb HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pg.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ok":      false,
				"error":   "postgres unavailable",
				"details": err.Error(),
			})
			return
		}

		if rdb != nil {
			if err := rdb.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"ok":      false,
					"error":   "redis unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "timestamp": time.Now().UTC()})
	}
}

// frontend serves files from dir and falls back to index.html so client side routes work.
// Unknown /api paths and non-GET methods get a JSON 404.
func frontend(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) || strings.HasPrefix(p, "/api/") {
			_ = c.Error(apperrors.New(apperrors.ErrCodeNotFound, "Route not found"))
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			_ = c.Error(apperrors.New(apperrors.ErrCodeNotFound, "Route not found"))
			return
		}
		c.File(index)
	}
}
