package main

import (
	"flag"
	"fmt"
	"strings"

	"tapgame-backend/internal/common/config"
	"tapgame-backend/internal/common/logger"
	"tapgame-backend/internal/platform/telegram"
)

// Registers (or with -delete removes) the bot webhook pointing at <public url>/tg/webhook.
func main() {
	publicURL := flag.String("url", "", "public base URL of the backend (defaults to RENDER_EXTERNAL_URL)")
	remove := flag.Bool("delete", false, "delete the webhook instead of setting it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	logger.Init("tapgame-webhook", cfg.Debug)

	bot, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	if *remove {
		if err := bot.DeleteWebhook(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to delete webhook")
		}
		logger.Info().Str("bot", bot.Username()).Msg("Webhook deleted")
		return
	}

	base := *publicURL
	if base == "" {
		base = cfg.Server.RenderExternalURL
	}
	if base == "" {
		logger.Fatal().Msg("Public URL is required: pass -url or set RENDER_EXTERNAL_URL")
	}

	hook := strings.TrimRight(base, "/") + "/tg/webhook"
	if err := bot.SetWebhook(hook, cfg.Telegram.WebhookSecret); err != nil {
		logger.Fatal().Err(err).Msg("Failed to set webhook")
	}
	logger.Info().Str("bot", bot.Username()).Str("url", hook).Msg("Webhook set")
}
