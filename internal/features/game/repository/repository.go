package repository

import (
	"context"
	"errors"

	"tapgame-backend/internal/features/game/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
)

// MutateFunc changes the locked state in place and returns the ledger entries to record with it.
// Returning an error aborts the mutation without persisting anything.
type MutateFunc func(st *models.State) ([]models.LedgerEntry, error)

type PlayerRepository interface {
	// UpsertPlayer creates the player and its default state, or refreshes the stored profile.
	UpsertPlayer(ctx context.Context, player *models.Player) (*models.Player, error)
}

type StateRepository interface {
	// Mutate runs fn against the player's state under a row lock and persists the result atomically.
	Mutate(ctx context.Context, playerID int64, fn MutateFunc) (*models.State, error)
}

type GameRepository interface {
	PlayerRepository
	StateRepository
}

// LeaderboardRepository ranks players by their token balance.
type LeaderboardRepository interface {
	Record(ctx context.Context, player *models.Player, tokens int64) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}
