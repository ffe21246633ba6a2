package models

import (
	"time"

	"tapgame-backend/internal/features/game/energy"
)

const (
	ThemeDay   = "day"
	ThemeNight = "night"
	ThemeAuto  = "auto"
)

// Player is the persisted Telegram profile of a game participant.
type Player struct {
	ID        int64     `json:"id"`
	TgUserID  int64     `json:"tg_user_id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Building is one structure placed in a player's city.
type Building struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

type City struct {
	Buildings  []Building `json:"buildings"`
	Population int        `json:"population"`
}

// State is the full game state of one player.
type State struct {
	PlayerID       int64      `json:"player_id"`
	Tokens         int64      `json:"tokens"`
	Level          int        `json:"level"`
	TapPower       int64      `json:"tap_power"`
	Energy         float64    `json:"energy"`
	Cap            float64    `json:"cap"`
	RegenPerSec    float64    `json:"regen_per_sec"`
	ShirtIdx       int        `json:"shirt_idx"`
	Theme          string     `json:"theme"`
	City           City       `json:"city"`
	LastTick       time.Time  `json:"last_tick"`
	LastDailyBonus *time.Time `json:"last_daily_bonus"`
}

// DefaultState is the state of a freshly registered player.
func DefaultState(playerID int64, now time.Time) *State {
	return &State{
		PlayerID:    playerID,
		Level:       1,
		TapPower:    1,
		Energy:      100,
		Cap:         100,
		RegenPerSec: 1,
		Theme:       ThemeDay,
		City:        City{Buildings: []Building{}},
		LastTick:    now,
	}
}

func (s *State) Resource() energy.Resource {
	return energy.Resource{
		Energy:         s.Energy,
		Cap:            s.Cap,
		RegenPerSecond: s.RegenPerSec,
		LastTick:       s.LastTick,
	}
}

// Tick brings energy up to date with now.
func (s *State) Tick(now time.Time) {
	r := energy.Accrue(s.Resource(), now)
	s.Energy = r.Energy
	s.Cap = r.Cap
	s.RegenPerSec = r.RegenPerSecond
	s.LastTick = r.LastTick
}

// LevelTarget is the token balance that promotes the player to the next level.
func (s *State) LevelTarget() int64 {
	return int64(s.Level) * 500
}

// DailyClaimed reports whether the daily bonus was already claimed on now's UTC day.
func (s *State) DailyClaimed(now time.Time) bool {
	if s.LastDailyBonus == nil {
		return false
	}
	return s.LastDailyBonus.UTC().Format(time.DateOnly) == now.UTC().Format(time.DateOnly)
}

// LedgerEntry is one row of the tx_log audit table.
type LedgerEntry struct {
	Kind        string         `json:"kind"`
	TokensDelta int64          `json:"tokens_delta"`
	Amount      *int64         `json:"amount,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// LeaderboardEntry is a ranked player in the token leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	TgUserID int64  `json:"tg_user_id"`
	Name     string `json:"name"`
	Tokens   int64  `json:"tokens"`
}
