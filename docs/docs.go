// Package docs registers the Swagger document served at /swagger in debug mode.
// Regenerate with: swag init -g cmd/app/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/state": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "description": "Returns the player's state with energy brought up to date. Creates the player on first call.",
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Get game state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.StateResponse"}},
                    "401": {"description": "Invalid init data", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/tap": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "description": "Spends one energy per tap and credits tap_power tokens per tap. Batches are clamped to 1..50.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Tap",
                "parameters": [
                    {"description": "Tap batch", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/models.TapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MutationResponse"}},
                    "401": {"description": "Invalid init data", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "NO_ENERGY", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/buy": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Buy upgrade",
                "parameters": [
                    {"description": "Upgrade kind", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BuyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MutationResponse"}},
                    "400": {"description": "BAD_KIND", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "NOT_ENOUGH_TOKENS", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/daily": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "description": "Credits 100 tokens once per UTC day.",
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Claim daily bonus",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DailyResponse"}},
                    "409": {"description": "ALREADY_CLAIMED", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/build": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Build in city",
                "parameters": [
                    {"description": "Building", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BuildRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MutationResponse"}},
                    "400": {"description": "BAD_BUILDING", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "NOT_ENOUGH_TOKENS", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/set-score": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "description": "Forwards the score to the Telegram game message with setGameScore.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Relay game score",
                "parameters": [
                    {"description": "Score and target message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SetScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ScoreResponse"}},
                    "400": {"description": "Missing target message", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bot API failure", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/leaderboard": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["game"],
                "summary": "Leaderboard",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Entries to return (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LeaderboardResponse"}},
                    "400": {"description": "Invalid limit", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Building": {
            "type": "object",
            "properties": {
                "at": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "models.City": {
            "type": "object",
            "properties": {
                "buildings": {"type": "array", "items": {"$ref": "#/definitions/models.Building"}},
                "population": {"type": "integer"}
            }
        },
        "models.State": {
            "type": "object",
            "properties": {
                "player_id": {"type": "integer"},
                "tokens": {"type": "integer"},
                "level": {"type": "integer"},
                "tap_power": {"type": "integer"},
                "energy": {"type": "number"},
                "cap": {"type": "number"},
                "regen_per_sec": {"type": "number"},
                "shirt_idx": {"type": "integer"},
                "theme": {"type": "string"},
                "city": {"$ref": "#/definitions/models.City"},
                "last_tick": {"type": "string"},
                "last_daily_bonus": {"type": "string"}
            }
        },
        "models.PlayerRef": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "tg": {"type": "object"}
            }
        },
        "models.StateResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "player": {"$ref": "#/definitions/models.PlayerRef"},
                "state": {"$ref": "#/definitions/models.State"}
            }
        },
        "models.MutationResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "state": {"$ref": "#/definitions/models.State"}
            }
        },
        "models.DailyResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "reward": {"type": "integer", "example": 100},
                "state": {"$ref": "#/definitions/models.State"}
            }
        },
        "models.ScoreResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "result": {"type": "object"}
            }
        },
        "models.LeaderboardEntry": {
            "type": "object",
            "properties": {
                "rank": {"type": "integer"},
                "tg_user_id": {"type": "integer"},
                "name": {"type": "string"},
                "tokens": {"type": "integer"}
            }
        },
        "models.LeaderboardResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "leaderboard": {"type": "array", "items": {"$ref": "#/definitions/models.LeaderboardEntry"}}
            }
        },
        "models.TapRequest": {
            "type": "object",
            "properties": {
                "taps": {"type": "number", "example": 5}
            }
        },
        "models.BuyRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["tap", "cap", "regen", "shirt", "bg"], "example": "tap"}
            }
        },
        "models.BuildRequest": {
            "type": "object",
            "properties": {
                "building": {"type": "string", "enum": ["house", "shop", "tower"], "example": "house"}
            }
        },
        "models.SetScoreRequest": {
            "type": "object",
            "properties": {
                "score": {"type": "number", "example": 1200},
                "chat_id": {"type": "integer"},
                "message_id": {"type": "integer"},
                "inline_message_id": {"type": "string"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": false},
                "error": {"type": "string", "example": "NO_ENERGY"},
                "message": {"type": "string", "example": "Not enough energy"},
                "request_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "TelegramInitData": {
            "description": "Telegram WebApp initData string",
            "type": "apiKey",
            "name": "X-Telegram-Init",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Tap Game API",
	Description:      "Backend of the Telegram tap-to-earn game. Game endpoints require Telegram WebApp initData.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
