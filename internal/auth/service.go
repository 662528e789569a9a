// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/identity"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

type Service struct {
	idp       IdentityProvider
	users     UserProvider
	blacklist Blacklist
	logger    *slog.Logger
}

func NewService(
	idp IdentityProvider,
	users UserProvider,
	blacklist Blacklist,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		idp:       idp,
		users:     users,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Register creates the provider account under a generated username and then
// the local role record. Public registration always yields RoleUser.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("register: %w", core.ErrUserExists)
	}

	username, err := core.GenerateUsername()
	if err != nil {
		return nil, err
	}

	res, err := s.idp.SignUp(ctx, username, req.Password, email)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	user, err := s.users.Create(ctx, res.UserSub, email, username)
	if err != nil {
		s.logger.ErrorContext(ctx, "local user insert failed after provider sign up",
			"username", username,
			"error", err,
		)
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("create local user: %w", core.ErrUserExists)
		}
		return nil, fmt.Errorf("create local user: %w", err)
	}

	return &RegisterResponse{
		Email:         user.Email,
		UserConfirmed: res.Confirmed,
		Role:          user.Role,
	}, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, core.BadRequestError("email is required")
	}

	if _, err := s.idp.LookupUser(ctx, email); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("user not found in local store")
		}
		return nil, fmt.Errorf("get local user: %w", err)
	}

	tokens, err := s.idp.SignIn(ctx, email, req.Password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	resp := &LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		IDToken:      tokens.IDToken,
		TokenType:    tokens.TokenType,
		ExpiresIn:    tokens.ExpiresIn,
		Role:         user.Role,
	}

	if tokens.IDToken != "" {
		claims, err := identity.ParseIDToken(tokens.IDToken)
		if err != nil {
			s.logger.WarnContext(ctx, "unreadable id token", "error", err)
		} else {
			if claims.Subject != user.CognitoSub {
				s.logger.WarnContext(ctx, "provider subject differs from local record",
					"user_id", user.ID,
				)
			}
			if !claims.ExpiresAt.IsZero() {
				resp.ExpiresAt = &claims.ExpiresAt
			}
		}
	}

	return resp, nil
}

func (s *Service) Confirm(
	ctx context.Context,
	req ConfirmRequest,
) (*ConfirmResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.BadRequestError("user not found")
		}
		return nil, fmt.Errorf("get local user: %w", err)
	}

	if err := s.idp.ConfirmSignUp(ctx, user.Username, req.Pin); err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			return nil, core.BadRequestError("user cannot be confirmed")
		}
		return nil, fmt.Errorf("confirm sign up: %w", err)
	}

	return &ConfirmResponse{UserConfirmed: true}, nil
}

func (s *Service) Refresh(
	ctx context.Context,
	req RefreshRequest,
) (*RefreshResponse, error) {
	var username string
	if req.Email != "" {
		user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("get local user: %w", err)
		}
		if user != nil {
			username = user.Username
		}
	}

	tokens, err := s.idp.Refresh(ctx, req.RefreshToken, username)
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) || errors.Is(err, core.ErrTokenExpired) {
			return nil, core.UnauthorizedError("invalid or expired refresh token")
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return &RefreshResponse{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

func (s *Service) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, core.BadRequestError("email is required")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return !exists, nil
}

func (s *Service) AssignRole(
	ctx context.Context,
	req AssignRoleRequest,
) (*AssignRoleResponse, error) {
	user, err := s.users.AssignRole(ctx, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.BadRequestError("user not found")
		}
		return nil, fmt.Errorf("assign role: %w", err)
	}

	s.logger.InfoContext(ctx, "role assigned", "user_id", user.ID, "role", user.Role)

	return &AssignRoleResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// VerifyAccessToken resolves a bearer token to a local principal: one
// provider call, then the role lookup by email.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.Principal, error) {
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, token)
		if err != nil {
			s.logger.WarnContext(ctx, "token blacklist unavailable", "error", err)
		} else if revoked {
			return nil, fmt.Errorf("verify token: revoked: %w", core.ErrTokenInvalid)
		}
	}

	info, err := s.idp.GetUser(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("verify token: no email attribute: %w", core.ErrTokenInvalid)
	}

	user, err := s.users.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("user not found in local store")
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return user.Principal(), nil
}

// Logout revokes the presented access token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	if s.blacklist == nil {
		return nil
	}

	expiresAt, ok := identity.TokenExpiry(token)
	if !ok {
		return nil
	}

	if err := s.blacklist.Revoke(ctx, token, expiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ middleware.TokenVerifier = (*Service)(nil)
