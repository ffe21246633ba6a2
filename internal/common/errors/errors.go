package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable error identifier sent to clients in the "error" field.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeRateLimit  ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Authentication
	ErrCodeInvalidInitData ErrorCode = "INVALID_INITDATA"

	// Game rules
	ErrCodeNoEnergy        ErrorCode = "NO_ENERGY"
	ErrCodeNotEnoughTokens ErrorCode = "NOT_ENOUGH_TOKENS"
	ErrCodeAlreadyClaimed  ErrorCode = "ALREADY_CLAIMED"
	ErrCodeBadKind         ErrorCode = "BAD_KIND"
	ErrCodeBadBuilding     ErrorCode = "BAD_BUILDING"

	// Infrastructure
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeTelegramAPI   ErrorCode = "TELEGRAM_API_ERROR"
)

// AppError is a typed application error rendered by the error middleware.
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches AppErrors by code so callers can use errors.Is against the exported sentinels.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a detail field. Details are merged into the JSON error response.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// HTTPStatus maps the error code to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeBadRequest, ErrCodeBadKind, ErrCodeBadBuilding:
		return http.StatusBadRequest
	case ErrCodeInvalidInitData:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyClaimed:
		return http.StatusConflict
	case ErrCodeNoEnergy, ErrCodeNotEnoughTokens:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeTelegramAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsInternal reports whether the error is caused by the server rather than the client.
func (e *AppError) IsInternal() bool {
	return e.HTTPStatus() >= http.StatusInternalServerError
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewTelegramAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTelegramAPI, fmt.Sprintf("Telegram API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeInvalidInitData, fmt.Sprintf("Unauthorized: %s", reason))
}
