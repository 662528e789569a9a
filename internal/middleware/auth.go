// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const (
	PrincipalKey       contextKey = "principal"
	principalHolderKey contextKey = "principal_holder"
)

// Principal is the authenticated caller. ID is the local user id.
type Principal struct {
	ID    string
	Email string
	Role  string
}

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*Principal, error)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			principal, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RoleAllowed decides access for a route declaring the accepted roles.
// An empty set admits everyone, authenticated or not.
func RoleAllowed(accepted []string, principal *Principal) bool {
	if len(accepted) == 0 {
		return true
	}
	if principal == nil || principal.Role == "" {
		return false
	}
	for _, role := range accepted {
		if role == principal.Role {
			return true
		}
	}
	return false
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	accepted := append([]string(nil), roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())

			if RoleAllowed(accepted, principal) {
				next.ServeHTTP(w, r)
				return
			}

			if principal == nil || principal.Role == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			core.JSONError(
				w,
				core.ForbiddenError("insufficient permissions"),
			)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(core.RoleAdmin)(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError(""))
	case errors.Is(err, core.ErrUpstream):
		core.JSONError(w, err)
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if h, ok := ctx.Value(principalHolderKey).(*principalHolder); ok && p != nil {
		h.id = p.ID
	}
	return context.WithValue(ctx, PrincipalKey, p)
}

// principalHolder lets outer middleware observe a principal attached by a
// route-level authenticator further down the chain.
type principalHolder struct {
	id string
}

func withPrincipalHolder(ctx context.Context, h *principalHolder) context.Context {
	return context.WithValue(ctx, principalHolderKey, h)
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return ""
}
