package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "tapgame-backend/internal/common/errors"
	"tapgame-backend/internal/common/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// Recovery turns a panic into an INTERNAL_ERROR response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := apperrors.New(apperrors.ErrCodeInternal, "Internal server error")
		renderError(c, appErr)
		c.Abort()
	})
}

// ErrorHandler renders the last error attached with c.Error once the chain has finished.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := apperrors.AsAppError(err)
		if !ok {
			appErr = apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
		}

		logError(c, appErr)
		renderError(c, appErr)
	}
}

// AbortWithError attaches err to the context and stops the chain. ErrorHandler renders it.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// renderError writes {ok:false, error, message, request_id, ...details}.
func renderError(c *gin.Context, appErr *apperrors.AppError) {
	body := gin.H{}
	for k, v := range appErr.Details {
		body[k] = v
	}
	body["ok"] = false
	body["error"] = string(appErr.Code)
	body["message"] = appErr.Message
	body["request_id"] = GetRequestID(c)

	c.JSON(appErr.HTTPStatus(), body)
}

func logError(c *gin.Context, appErr *apperrors.AppError) {
	event := logger.Info()
	switch {
	case appErr.IsInternal():
		event = logger.Error()
	case appErr.HTTPStatus() == http.StatusUnauthorized, appErr.HTTPStatus() == http.StatusTooManyRequests:
		event = logger.Warn()
	}

	event = event.
		Str("request_id", GetRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)

	if user, ok := GetUser(c); ok {
		event = event.Int64("tg_user_id", user.ID)
	}
	if len(appErr.Details) > 0 {
		event = event.Str("details", fmt.Sprintf("%v", appErr.Details))
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Msg("Request failed")
}

// GetRequestID returns the id assigned by RequestID, or "unknown".
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
