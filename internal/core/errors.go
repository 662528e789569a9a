// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOutOfRange         = errors.New("value out of range")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotConfirmed   = errors.New("user not confirmed")
	ErrCodeMismatch       = errors.New("incorrect code")
	ErrCodeExpired        = errors.New("code expired")
	ErrUpstream           = errors.New("upstream service error")
)

// AppError is an error that already knows how it should be rendered.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrNotFound, resource+" not found", http.StatusNotFound, "NOT_FOUND")
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "BAD_REQUEST")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusBadRequest,
		"DUPLICATE",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "token has expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "invalid or expired token", http.StatusUnauthorized, "TOKEN_INVALID")
}

// ToAppError collapses any error into one of the four response kinds:
// bad input, unauthorized, not found, internal.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, "resource not found", http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, ErrInsufficientStock):
		return NewAppError(err, "insufficient stock", http.StatusBadRequest, "INSUFFICIENT_STOCK")
	case errors.Is(err, ErrDuplicateKey):
		return NewAppError(err, "resource already exists", http.StatusBadRequest, "DUPLICATE")
	case errors.Is(err, ErrUserExists):
		return NewAppError(err, "user already exists", http.StatusBadRequest, "USER_EXISTS")
	case errors.Is(err, ErrCodeMismatch):
		return NewAppError(err, "incorrect code", http.StatusBadRequest, "CODE_MISMATCH")
	case errors.Is(err, ErrCodeExpired):
		return NewAppError(err, "code has expired", http.StatusBadRequest, "CODE_EXPIRED")
	case errors.Is(err, ErrOutOfRange):
		return NewAppError(err, "value out of range", http.StatusBadRequest, "OUT_OF_RANGE")
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(err, "invalid input", http.StatusBadRequest, "INVALID_INPUT")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(err, "invalid credentials", http.StatusUnauthorized, "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserNotConfirmed):
		return NewAppError(err, "user not confirmed", http.StatusUnauthorized, "USER_NOT_CONFIRMED")
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(err, "authentication required", http.StatusUnauthorized, "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewAppError(err, "insufficient permissions", http.StatusForbidden, "FORBIDDEN")
	case errors.Is(err, ErrUpstream):
		return NewAppError(err, "upstream service unavailable", http.StatusBadGateway, "UPSTREAM_ERROR")
	default:
		return NewAppError(err, "internal server error", http.StatusInternalServerError, "INTERNAL_ERROR")
	}
}
