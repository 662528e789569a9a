// AngelaMos | 2026
// entity.go

package auth

import (
	"context"

	"github.com/carterperez-dev/templates/storefront/internal/identity"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

// UserInfo is the local role record as seen by the auth flow.
type UserInfo struct {
	ID         string
	CognitoSub string
	Email      string
	Username   string
	Role       string
}

func (u *UserInfo) Principal() *middleware.Principal {
	return &middleware.Principal{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	Create(ctx context.Context, cognitoSub, email, username string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	AssignRole(ctx context.Context, email, role string) (*UserInfo, error)
}

// IdentityProvider is implemented by *identity.Gateway.
type IdentityProvider interface {
	SignUp(ctx context.Context, username, password, email string) (*identity.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*identity.Tokens, error)
	ConfirmSignUp(ctx context.Context, username, code string) error
	Refresh(ctx context.Context, refreshToken, username string) (*identity.Tokens, error)
	GetUser(ctx context.Context, accessToken string) (*identity.UserInfo, error)
	LookupUser(ctx context.Context, username string) (*identity.UserInfo, error)
}

var _ IdentityProvider = (*identity.Gateway)(nil)
