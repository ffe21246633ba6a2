package middleware

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	apperrors "tapgame-backend/internal/common/errors"
	"tapgame-backend/internal/common/logger"
)

const (
	InitDataHeader = "X-Telegram-Init"
	InitDataQuery  = "initData"

	userKey = "user"
)

// Authenticator validates a raw initData payload and returns the signed-in Telegram user.
type Authenticator interface {
	Authenticate(payload string) (*initdata.User, error)
}

type initDataBody struct {
	InitData string `json:"initData"`
}

// InitDataAuth rejects requests without valid initData and stores the user under "user".
func InitDataAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := extractInitData(c)
		if payload == "" {
			AbortWithError(c, apperrors.NewUnauthorizedError("init data required"))
			return
		}

		user, err := auth.Authenticate(payload)
		if err != nil {
			logger.Debug().Err(err).Str("request_id", GetRequestID(c)).Msg("Init data rejected")
			AbortWithError(c, apperrors.NewUnauthorizedError("invalid init data"))
			return
		}
		if user == nil || user.ID == 0 {
			AbortWithError(c, apperrors.NewUnauthorizedError("init data has no user"))
			return
		}

		c.Set(userKey, *user)
		c.Next()
	}
}

// extractInitData looks at the header, then the query string, then a JSON body field.
// The body is cached so handlers can still bind it with ShouldBindBodyWith.
func extractInitData(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(InitDataHeader)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Query(InitDataQuery)); v != "" {
		return v
	}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return ""
	}

	var body initDataBody
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(body.InitData)
}

// GetUser returns the user stored by InitDataAuth.
func GetUser(c *gin.Context) (initdata.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return initdata.User{}, false
	}
	user, ok := v.(initdata.User)
	return user, ok
}
