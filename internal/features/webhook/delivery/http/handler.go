package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tapgame-backend/internal/common/logger"
	"tapgame-backend/internal/common/middleware"
	"tapgame-backend/internal/features/webhook/service"
)

const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type WebhookHandler struct {
	service *service.WebhookService
	secret  string
}

// NewWebhookHandler checks the secret token header when secret is not empty.
func NewWebhookHandler(service *service.WebhookService, secret string) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		secret:  secret,
	}
}

func (h *WebhookHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/tg/webhook", h.handleUpdate)
}

// @Summary Telegram bot webhook
// @Description Receives Bot API updates. Always answers 200 so Telegram does not retry.
// @Tags telegram
// @Accept json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Webhook secret token"
// @Success 200
// @Failure 401 "Secret token mismatch"
// @Router /tg/webhook [post]
func (h *WebhookHandler) handleUpdate(c *gin.Context) {
	if h.secret != "" {
		got := c.GetHeader(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			logger.Warn().Str("request_id", middleware.GetRequestID(c)).Msg("Webhook secret token mismatch")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&update); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode webhook update")
		c.Status(http.StatusOK)
		return
	}

	event, err := h.service.HandleUpdate(&update, requestBase(c))
	if err != nil {
		logger.Error().Err(err).Int("update_id", update.UpdateID).Msg("Webhook update failed")
	} else {
		logger.Debug().Int("update_id", update.UpdateID).Str("event", string(event)).Msg("Webhook update handled")
	}
	c.Status(http.StatusOK)
}

// requestBase is the root URL of this server as seen by the client.
func requestBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host + "/"
}
