package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tapgame-backend/internal/features/game/models"
	"tapgame-backend/internal/features/game/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.GameRepository {
	return &postgresRepository{db: db}
}

const upsertPlayerQuery = `
	INSERT INTO players (tg_user_id, username, first_name, last_name, photo_url)
	VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
	ON CONFLICT (tg_user_id) DO UPDATE SET
		username = EXCLUDED.username,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		photo_url = COALESCE(EXCLUDED.photo_url, players.photo_url)
	RETURNING id, tg_user_id, COALESCE(username, ''), COALESCE(first_name, ''),
		COALESCE(last_name, ''), COALESCE(photo_url, ''), created_at
`

const ensureStateQuery = `
	INSERT INTO game_state (player_id) VALUES ($1)
	ON CONFLICT (player_id) DO NOTHING
`

const selectStateForUpdateQuery = `
	SELECT player_id, tokens, level, tap_power, energy, cap, regen_per_sec,
		shirt_idx, theme, city, last_tick, last_daily_bonus
	FROM game_state
	WHERE player_id = $1
	FOR UPDATE
`

const updateStateQuery = `
	UPDATE game_state
	SET tokens = $2, level = $3, tap_power = $4, energy = $5, cap = $6,
		regen_per_sec = $7, shirt_idx = $8, theme = $9, city = $10,
		last_tick = $11, last_daily_bonus = $12
	WHERE player_id = $1
`

const insertLedgerQuery = `
	INSERT INTO tx_log (player_id, kind, tokens_delta, amount, meta)
	VALUES ($1, $2, $3, $4, $5)
`

// UpsertPlayer creates the player with a default state row or refreshes its Telegram profile.
func (r *postgresRepository) UpsertPlayer(ctx context.Context, player *models.Player) (*models.Player, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var p models.Player
	err = tx.QueryRowContext(ctx, upsertPlayerQuery,
		player.TgUserID, player.Username, player.FirstName, player.LastName, player.PhotoURL,
	).Scan(&p.ID, &p.TgUserID, &p.Username, &p.FirstName, &p.LastName, &p.PhotoURL, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player: %w", err)
	}

	if _, err := tx.ExecContext(ctx, ensureStateQuery, p.ID); err != nil {
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player upsert: %w", err)
	}
	return &p, nil
}

// Mutate locks the state row, applies fn and writes state plus ledger entries in one transaction.
func (r *postgresRepository) Mutate(ctx context.Context, playerID int64, fn repository.MutateFunc) (*models.State, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	st, err := scanState(tx.QueryRowContext(ctx, selectStateForUpdateQuery, playerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}

	entries, err := fn(st)
	if err != nil {
		return nil, err
	}

	city, err := json.Marshal(st.City)
	if err != nil {
		return nil, fmt.Errorf("failed to encode city: %w", err)
	}

	var lastDaily interface{}
	if st.LastDailyBonus != nil {
		lastDaily = st.LastDailyBonus.UTC().Format(time.DateOnly)
	}

	_, err = tx.ExecContext(ctx, updateStateQuery,
		playerID, st.Tokens, st.Level, st.TapPower, st.Energy, st.Cap,
		st.RegenPerSec, st.ShirtIdx, st.Theme, string(city),
		st.LastTick, lastDaily,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	for _, e := range entries {
		if err := insertLedgerEntry(ctx, tx, playerID, e); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game state: %w", err)
	}
	return st, nil
}

func insertLedgerEntry(ctx context.Context, tx *sql.Tx, playerID int64, e models.LedgerEntry) error {
	var meta interface{}
	if len(e.Meta) > 0 {
		raw, err := json.Marshal(e.Meta)
		if err != nil {
			return fmt.Errorf("failed to encode ledger meta: %w", err)
		}
		meta = string(raw)
	}

	var amount interface{}
	if e.Amount != nil {
		amount = *e.Amount
	}

	if _, err := tx.ExecContext(ctx, insertLedgerQuery, playerID, e.Kind, e.TokensDelta, amount, meta); err != nil {
		return fmt.Errorf("failed to insert ledger entry %q: %w", e.Kind, err)
	}
	return nil
}

func scanState(row *sql.Row) (*models.State, error) {
	var (
		st        models.State
		city      []byte
		lastDaily sql.NullTime
	)
	err := row.Scan(&st.PlayerID, &st.Tokens, &st.Level, &st.TapPower, &st.Energy, &st.Cap,
		&st.RegenPerSec, &st.ShirtIdx, &st.Theme, &city, &st.LastTick, &lastDaily)
	if err != nil {
		return nil, err
	}

	if len(city) > 0 {
		if err := json.Unmarshal(city, &st.City); err != nil {
			return nil, fmt.Errorf("failed to decode city: %w", err)
		}
	}
	if st.City.Buildings == nil {
		st.City.Buildings = []models.Building{}
	}
	if lastDaily.Valid {
		d := lastDaily.Time
		st.LastDailyBonus = &d
	}
	return &st, nil
}
