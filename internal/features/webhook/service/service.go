package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tapgame-backend/internal/common/logger"
	"tapgame-backend/internal/common/metrics"
)

// Event describes how an update was handled.
type Event string

const (
	EventPlay         Event = "play"
	EventGameCallback Event = "game_callback"
	EventIgnored      Event = "ignored"
	EventFailed       Event = "failed"
)

var playCommand = regexp.MustCompile(`(?i)^/(start|play)`)

// Bot is the subset of the Bot API used by the webhook.
type Bot interface {
	SendGame(chatID int64, shortName string) error
	AnswerGameCallback(callbackID, url string) error
}

type WebhookService struct {
	bot         Bot
	shortName   string
	frontendURL string
	metrics     *metrics.Metrics
}

// NewWebhookService answers /start, /play and Play button presses for the game shortName.
// An empty frontendURL makes the game URL point at the host that received the update.
func NewWebhookService(bot Bot, shortName, frontendURL string, m *metrics.Metrics) *WebhookService {
	if m == nil {
		m = metrics.New()
	}
	return &WebhookService{
		bot:         bot,
		shortName:   shortName,
		frontendURL: strings.TrimSpace(frontendURL),
		metrics:     m,
	}
}

// HandleUpdate reacts to one update. requestBase is used as game URL when no frontend URL is configured.
func (s *WebhookService) HandleUpdate(update *tgbotapi.Update, requestBase string) (Event, error) {
	event, err := s.handle(update, requestBase)
	if err != nil {
		s.metrics.RecordWebhookEvent(string(EventFailed))
		return EventFailed, err
	}
	s.metrics.RecordWebhookEvent(string(event))
	return event, nil
}

func (s *WebhookService) handle(update *tgbotapi.Update, requestBase string) (Event, error) {
	if msg := update.Message; msg != nil && msg.Chat != nil && playCommand.MatchString(msg.Text) {
		if err := s.bot.SendGame(msg.Chat.ID, s.shortName); err != nil {
			return "", fmt.Errorf("send game to chat %d: %w", msg.Chat.ID, err)
		}
		logger.Info().Int64("chat_id", msg.Chat.ID).Msg("Game card sent")
		return EventPlay, nil
	}

	if cq := update.CallbackQuery; cq != nil && cq.GameShortName == s.shortName {
		base := s.frontendURL
		if base == "" {
			base = requestBase
		}

		var params []QueryParam
		if cq.Message != nil && cq.Message.Chat != nil {
			params = append(params,
				QueryParam{"chat_id", strconv.FormatInt(cq.Message.Chat.ID, 10)},
				QueryParam{"message_id", strconv.Itoa(cq.Message.MessageID)},
			)
		}
		if cq.InlineMessageID != "" {
			params = append(params, QueryParam{"inline_message_id", cq.InlineMessageID})
		}

		gameURL := GameURL(base, params)
		if err := s.bot.AnswerGameCallback(cq.ID, gameURL); err != nil {
			return "", fmt.Errorf("answer game callback %s: %w", cq.ID, err)
		}
		logger.Debug().Str("callback_id", cq.ID).Str("url", gameURL).Msg("Game callback answered")
		return EventGameCallback, nil
	}

	return EventIgnored, nil
}

// QueryParam is one key/value pair of the game URL query.
type QueryParam struct {
	Key   string
	Value string
}

// GameURL appends params to base, keeping their order. A base with a query gets "&",
// otherwise "?" is added after a trailing slash.
func GameURL(base string, params []QueryParam) string {
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	query := strings.Join(pairs, "&")

	switch {
	case strings.Contains(base, "?"):
		return base + "&" + query
	case strings.HasSuffix(base, "/"):
		return base + "?" + query
	default:
		return base + "/?" + query
	}
}
