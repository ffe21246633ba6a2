package models

import (
	"encoding/json"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// Request and response bodies of the game API. They double as Swagger schemas.

type TapRequest struct {
	Taps float64 `json:"taps" example:"5"`
}

type BuyRequest struct {
	Kind string `json:"kind" example:"tap" enums:"tap,cap,regen,shirt,bg"`
}

type BuildRequest struct {
	Building string `json:"building" example:"house" enums:"house,shop,tower"`
}

type SetScoreRequest struct {
	Score           float64 `json:"score" example:"1200"`
	ChatID          int64   `json:"chat_id,omitempty"`
	MessageID       int     `json:"message_id,omitempty"`
	InlineMessageID string  `json:"inline_message_id,omitempty"`
}

type PlayerRef struct {
	ID int64         `json:"id"`
	Tg initdata.User `json:"tg"`
}

type StateResponse struct {
	OK     bool      `json:"ok" example:"true"`
	Player PlayerRef `json:"player"`
	State  *State    `json:"state"`
}

type MutationResponse struct {
	OK    bool   `json:"ok" example:"true"`
	State *State `json:"state"`
}

type DailyResponse struct {
	OK     bool   `json:"ok" example:"true"`
	Reward int64  `json:"reward" example:"100"`
	State  *State `json:"state"`
}

type ScoreResponse struct {
	OK     bool            `json:"ok" example:"true"`
	Result json.RawMessage `json:"result" swaggertype:"object"`
}

type LeaderboardResponse struct {
	OK          bool               `json:"ok" example:"true"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type ErrorResponse struct {
	OK        bool   `json:"ok" example:"false"`
	Error     string `json:"error" example:"NO_ENERGY"`
	Message   string `json:"message" example:"Not enough energy"`
	RequestID string `json:"request_id"`
}
