package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port int `env:"PORT" envDefault:"8080"`
		// Comma separated list of allowed CORS origins. Requests without Origin are always allowed.
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
		FrontendDir string   `env:"FRONTEND_DIR" envDefault:"../frontend"`
		// Public URL of the game frontend. Falls back to RENDER_EXTERNAL_URL, then to the request host.
		FrontendURL       string `env:"FRONTEND_URL"`
		RenderExternalURL string `env:"RENDER_EXTERNAL_URL"`
	}

	Postgres struct {
		URL             string        `env:"DATABASE_URL,required,notEmpty"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
		AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	}

	Redis struct {
		// Empty address disables the leaderboard.
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken      string `env:"TELEGRAM_BOT_TOKEN,required,notEmpty"`
		GameShortName string `env:"TELEGRAM_GAME_SHORT_NAME" envDefault:"ricobetmascotclicker"`
		WebhookSecret string `env:"TELEGRAM_WEBHOOK_SECRET"`
		// Maximum age of init data (auth_date). 0 disables the check.
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
		Debug       bool          `env:"TELEGRAM_DEBUG" envDefault:"false"`
	}

	RateLimit struct {
		// Requests per second allowed per player. 0 disables rate limiting.
		RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
		Burst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
	}
}

// Load reads .env (when present) and the process environment into Config.
func Load() (*Config, error) {
	// .env is optional, production sets variables directly
	_ = godotenv.Load()

	return Parse()
}

// Parse reads Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	origins := cfg.Server.CORSOrigins[:0]
	for _, o := range cfg.Server.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.Server.CORSOrigins = origins

	if cfg.RateLimit.RPS < 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %v", cfg.RateLimit.RPS)
	}
	if cfg.Telegram.InitDataTTL < 0 {
		return nil, fmt.Errorf("invalid INIT_DATA_TTL: %v", cfg.Telegram.InitDataTTL)
	}

	return cfg, nil
}

// PublicFrontendURL returns the configured frontend base URL or "" when the request host should be used.
func (c *Config) PublicFrontendURL() string {
	if u := strings.TrimSpace(c.Server.FrontendURL); u != "" {
		return u
	}
	return strings.TrimSpace(c.Server.RenderExternalURL)
}
