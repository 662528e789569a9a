// AngelaMos | 2026
// token.go

package identity

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

// IDClaims is what callers need from an ID token.
type IDClaims struct {
	Subject   string
	Email     string
	Username  string
	ExpiresAt time.Time
}

// ParseIDToken decodes an ID token handed back by SignIn. The signature is
// not checked here: the token came straight from the provider over TLS.
func ParseIDToken(raw string) (*IDClaims, error) {
	token, err := jwt.ParseInsecure([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse id token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("parse id token: missing subject: %w", core.ErrTokenInvalid)
	}

	claims := &IDClaims{Subject: subject}
	if exp, ok := token.Expiration(); ok {
		claims.ExpiresAt = exp
	}

	var email string
	if err := token.Get("email", &email); err == nil {
		claims.Email = email
	}

	var username string
	if err := token.Get("cognito:username", &username); err == nil {
		claims.Username = username
	}

	return claims, nil
}

// checkAccessTokenExpiry rejects tokens that are unparseable or already
// expired without spending a provider round trip.
func checkAccessTokenExpiry(raw string) error {
	token, err := jwt.ParseInsecure([]byte(raw))
	if err != nil {
		return core.ErrTokenInvalid
	}

	if exp, ok := token.Expiration(); ok && time.Now().After(exp) {
		return core.ErrTokenExpired
	}

	return nil
}

// TokenExpiry reads the exp claim without verifying the token.
func TokenExpiry(raw string) (time.Time, bool) {
	token, err := jwt.ParseInsecure([]byte(raw))
	if err != nil {
		return time.Time{}, false
	}
	return token.Expiration()
}
