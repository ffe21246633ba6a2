package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	apperrors "tapgame-backend/internal/common/errors"
	"tapgame-backend/internal/common/logger"
	"tapgame-backend/internal/common/metrics"
	"tapgame-backend/internal/features/game/models"
	"tapgame-backend/internal/features/game/repository"
	"tapgame-backend/internal/platform/telegram"
)

const (
	MinTaps = 1
	MaxTaps = 50

	DailyReward = 100

	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100

	ledgerKindBuild = "build"
	ledgerKindBonus = "bonus"
)

type gameService struct {
	repo        repository.GameRepository
	leaderboard repository.LeaderboardRepository
	relay       ScoreRelay
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewGameService wires the game rules to storage. leaderboard and relay may be nil.
func NewGameService(
	repo repository.GameRepository,
	leaderboard repository.LeaderboardRepository,
	relay ScoreRelay,
	m *metrics.Metrics,
) GameService {
	if m == nil {
		m = metrics.New()
	}
	return &gameService{
		repo:        repo,
		leaderboard: leaderboard,
		relay:       relay,
		metrics:     m,
		now:         time.Now,
	}
}

func (s *gameService) EnsurePlayer(ctx context.Context, user initdata.User) (*models.Player, error) {
	player, err := s.repo.UpsertPlayer(ctx, &models.Player{
		TgUserID:  user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		PhotoURL:  user.PhotoURL,
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("upsert player", err)
	}
	return player, nil
}

// State accrues energy and persists the result so last_tick moves forward.
func (s *gameService) State(ctx context.Context, player *models.Player) (*models.State, error) {
	now := s.now()
	return s.mutate(ctx, "load state", player, func(st *models.State) ([]models.LedgerEntry, error) {
		st.Tick(now)
		return nil, nil
	})
}

// ClampTaps bounds a tap batch to 1..50. Zero or negative counts as a single tap.
func ClampTaps(taps int) int {
	if taps < MinTaps {
		return MinTaps
	}
	if taps > MaxTaps {
		return MaxTaps
	}
	return taps
}

func (s *gameService) Tap(ctx context.Context, player *models.Player, taps int) (*models.State, error) {
	n := ClampTaps(taps)
	now := s.now()

	var earned int64
	st, err := s.mutate(ctx, "tap", player, func(st *models.State) ([]models.LedgerEntry, error) {
		st.Tick(now)
		if st.Energy < float64(n) {
			return nil, noEnergy(st.Energy, n)
		}

		earned = int64(n) * st.TapPower
		st.Energy -= float64(n)
		st.Tokens += earned
		if st.Tokens >= st.LevelTarget() {
			st.Level++
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTaps(n, earned)
	return st, nil
}

func (s *gameService) Buy(ctx context.Context, player *models.Player, key string) (*models.State, error) {
	kind, err := models.ParseUpgradeKind(key)
	if err != nil {
		s.metrics.RecordRejected(string(apperrors.ErrCodeBadKind))
		return nil, badKind(key)
	}
	now := s.now()

	st, err := s.mutate(ctx, "buy upgrade", player, func(st *models.State) ([]models.LedgerEntry, error) {
		st.Tick(now)
		cost := kind.Cost()
		if st.Tokens < cost {
			return nil, notEnoughTokens(st.Tokens, cost)
		}

		st.Tokens -= cost
		kind.Apply(st)
		return []models.LedgerEntry{{Kind: kind.String(), TokensDelta: -cost}}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPurchase(kind.String())
	return st, nil
}

func (s *gameService) Build(ctx context.Context, player *models.Player, key string) (*models.State, error) {
	kind, err := models.ParseBuildingKind(key)
	if err != nil {
		s.metrics.RecordRejected(string(apperrors.ErrCodeBadBuilding))
		return nil, badBuilding(key)
	}
	now := s.now()

	st, err := s.mutate(ctx, "build", player, func(st *models.State) ([]models.LedgerEntry, error) {
		st.Tick(now)
		cost := kind.Cost()
		if st.Tokens < cost {
			return nil, notEnoughTokens(st.Tokens, cost)
		}

		st.Tokens -= cost
		kind.Place(st, now)
		return []models.LedgerEntry{{
			Kind:        ledgerKindBuild,
			TokensDelta: -cost,
			Meta:        map[string]any{"building": kind.String()},
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordBuilding(kind.String())
	return st, nil
}

// ClaimDaily credits the bonus once per UTC calendar day.
func (s *gameService) ClaimDaily(ctx context.Context, player *models.Player) (int64, *models.State, error) {
	now := s.now()

	st, err := s.mutate(ctx, "claim daily bonus", player, func(st *models.State) ([]models.LedgerEntry, error) {
		st.Tick(now)
		if st.DailyClaimed(now) {
			return nil, alreadyClaimed()
		}

		reward := int64(DailyReward)
		y, m, d := now.UTC().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

		st.Tokens += reward
		st.LastDailyBonus = &today
		return []models.LedgerEntry{{Kind: ledgerKindBonus, TokensDelta: reward, Amount: &reward}}, nil
	})
	if err != nil {
		return 0, nil, err
	}

	s.metrics.RecordDailyClaim(DailyReward)
	return DailyReward, st, nil
}

// NormalizeScore floors the score and clamps it at zero.
func NormalizeScore(score float64) int {
	if math.IsNaN(score) || score <= 0 {
		return 0
	}
	if score >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(score))
}

func (s *gameService) SetScore(ctx context.Context, player *models.Player, req ScoreRequest) (json.RawMessage, error) {
	if req.InlineMessageID == "" && (req.ChatID == 0 || req.MessageID == 0) {
		return nil, apperrors.New(apperrors.ErrCodeBadRequest, "chat_id and message_id or inline_message_id required")
	}
	if s.relay == nil {
		return nil, apperrors.New(apperrors.ErrCodeTelegramAPI, "Bot API relay is not configured")
	}

	score := telegram.GameScore{
		UserID:          player.TgUserID,
		Score:           NormalizeScore(req.Score),
		ChatID:          req.ChatID,
		MessageID:       req.MessageID,
		InlineMessageID: req.InlineMessageID,
	}

	result, err := s.relay.SetGameScore(score)
	s.metrics.RecordScoreRelay(err == nil)
	if err != nil {
		return nil, apperrors.NewTelegramAPIError("setGameScore", err)
	}

	logger.Info().
		Int64("tg_user_id", player.TgUserID).
		Int("score", score.Score).
		Msg("Game score relayed")
	return result, nil
}

// Leaderboard returns the top players by tokens. Without a leaderboard store it is always empty.
func (s *gameService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	if s.leaderboard == nil {
		return []models.LeaderboardEntry{}, nil
	}

	entries, err := s.leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("read leaderboard", err)
	}
	return entries, nil
}

// mutate runs fn under the repository lock, maps storage failures and updates the leaderboard.
func (s *gameService) mutate(ctx context.Context, op string, player *models.Player, fn repository.MutateFunc) (*models.State, error) {
	st, err := s.repo.Mutate(ctx, player.ID, fn)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			s.metrics.RecordRejected(string(appErr.Code))
			return nil, appErr
		}
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Player not found")
		}
		return nil, apperrors.NewDatabaseError(op, err)
	}

	s.recordLeaderboard(ctx, player, st.Tokens)
	return st, nil
}

func (s *gameService) recordLeaderboard(ctx context.Context, player *models.Player, tokens int64) {
	if s.leaderboard == nil {
		return
	}
	if err := s.leaderboard.Record(ctx, player, tokens); err != nil {
		logger.Warn().Err(err).Int64("tg_user_id", player.TgUserID).Msg("Failed to update leaderboard")
	}
}
