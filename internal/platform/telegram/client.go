package telegram

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GameScore identifies the game message whose high score table is updated.
// InlineMessageID takes precedence over ChatID and MessageID.
type GameScore struct {
	UserID          int64
	Score           int
	ChatID          int64
	MessageID       int
	InlineMessageID string
}

type Client struct {
	bot *tgbotapi.BotAPI
}

// NewClient connects to the public Bot API and checks the token with getMe.
func NewClient(token string, debug bool) (*Client, error) {
	return NewClientWithEndpoint(token, tgbotapi.APIEndpoint, &http.Client{Timeout: 10 * time.Second}, debug)
}

// NewClientWithEndpoint is NewClient against a custom endpoint format ("<base>/bot%s/%s").
func NewClientWithEndpoint(token, endpoint string, httpClient tgbotapi.HTTPClient, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to init bot api: %w", err)
	}
	bot.Debug = debug
	return &Client{bot: bot}, nil
}

// Username returns the bot's username as reported by getMe.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// SendGame posts the game card to a chat.
func (c *Client) SendGame(chatID int64, shortName string) error {
	cfg := tgbotapi.GameConfig{
		BaseChat:      tgbotapi.BaseChat{ChatID: chatID},
		GameShortName: shortName,
	}
	if _, err := c.bot.Send(cfg); err != nil {
		return fmt.Errorf("sendGame: %w", err)
	}
	return nil
}

// AnswerGameCallback answers a Play button press with the URL the client should open.
func (c *Client) AnswerGameCallback(callbackID, url string) error {
	cfg := tgbotapi.CallbackConfig{
		CallbackQueryID: callbackID,
		URL:             url,
	}
	if _, err := c.bot.Request(cfg); err != nil {
		return fmt.Errorf("answerCallbackQuery: %w", err)
	}
	return nil
}

// SetGameScore overwrites the player's score in the game message and returns the raw result.
func (c *Client) SetGameScore(score GameScore) (json.RawMessage, error) {
	params := tgbotapi.Params{
		"user_id":              strconv.FormatInt(score.UserID, 10),
		"score":                strconv.Itoa(score.Score),
		"force":                "true",
		"disable_edit_message": "false",
	}
	if score.InlineMessageID != "" {
		params["inline_message_id"] = score.InlineMessageID
	} else {
		params["chat_id"] = strconv.FormatInt(score.ChatID, 10)
		params["message_id"] = strconv.Itoa(score.MessageID)
	}

	resp, err := c.bot.MakeRequest("setGameScore", params)
	if err != nil {
		return nil, fmt.Errorf("setGameScore: %w", err)
	}
	return resp.Result, nil
}

// SetWebhook points the bot at url. Telegram echoes secret in X-Telegram-Bot-Api-Secret-Token.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{
		"url":             url,
		"allowed_updates": `["message","callback_query"]`,
	}
	if secret != "" {
		params["secret_token"] = secret
	}
	if _, err := c.bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("setWebhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes the webhook so updates can be polled again.
func (c *Client) DeleteWebhook() error {
	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("deleteWebhook: %w", err)
	}
	return nil
}
