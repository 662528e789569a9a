// AngelaMos | 2026
// errors_test.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get product: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", fmt.Errorf("create product: %w", ErrDuplicateKey), http.StatusBadRequest, "DUPLICATE"},
		{"stock", ErrInsufficientStock, http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"out of range", fmt.Errorf("set stock: %w", ErrOutOfRange), http.StatusBadRequest, "OUT_OF_RANGE"},
		{"invalid input", fmt.Errorf("sign up: %w", ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{"user exists", ErrUserExists, http.StatusBadRequest, "USER_EXISTS"},
		{"code mismatch", ErrCodeMismatch, http.StatusBadRequest, "CODE_MISMATCH"},
		{"code expired", ErrCodeExpired, http.StatusBadRequest, "CODE_EXPIRED"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"token", ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
		{"expired token", ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"upstream", ErrUpstream, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestInvalidInputHidesOperationNames(t *testing.T) {
	err := fmt.Errorf("sign up: sign_up: %w", ErrInvalidInput)

	appErr := ToAppError(err)
	assert.Equal(t, "invalid input", appErr.Message)
	assert.NotContains(t, appErr.Message, "sign")
}

func TestToAppErrorKeepsAppError(t *testing.T) {
	original := BadRequestError("quantity must be positive")
	wrapped := fmt.Errorf("add to cart: %w", original)

	appErr := ToAppError(wrapped)
	assert.Same(t, original, appErr)
	assert.True(t, IsAppError(wrapped))
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
}
