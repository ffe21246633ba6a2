package service

import (
	"context"
	"encoding/json"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"tapgame-backend/internal/features/game/models"
	"tapgame-backend/internal/platform/telegram"
)

type GameService interface {
	EnsurePlayer(ctx context.Context, user initdata.User) (*models.Player, error)
	State(ctx context.Context, player *models.Player) (*models.State, error)
	Tap(ctx context.Context, player *models.Player, taps int) (*models.State, error)
	Buy(ctx context.Context, player *models.Player, kind string) (*models.State, error)
	Build(ctx context.Context, player *models.Player, building string) (*models.State, error)
	ClaimDaily(ctx context.Context, player *models.Player) (int64, *models.State, error)
	SetScore(ctx context.Context, player *models.Player, req ScoreRequest) (json.RawMessage, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// ScoreRelay forwards scores to the Bot API game message.
type ScoreRelay interface {
	SetGameScore(score telegram.GameScore) (json.RawMessage, error)
}

// ScoreRequest targets either an inline message or a chat message.
type ScoreRequest struct {
	Score           float64
	ChatID          int64
	MessageID       int
	InlineMessageID string
}
