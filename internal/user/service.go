// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	cognitoSub, email, username string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:         uuid.New().String(),
		CognitoSub: cognitoSub,
		Email:      normalizeEmail(email),
		Username:   username,
		Role:       core.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, normalizeEmail(email))
}

func (s *Service) AssignRole(
	ctx context.Context,
	email, role string,
) (*auth.UserInfo, error) {
	if !core.IsValidRole(role) {
		return nil, fmt.Errorf(
			"assign role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.UpdateRoleByEmail(ctx, normalizeEmail(email), role)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// GetUser returns a profile. A non-admin may only read their own.
func (s *Service) GetUser(
	ctx context.Context,
	requesterID, requesterRole, id string,
) (*User, error) {
	if requesterRole != core.RoleAdmin && requesterID != id {
		return nil, fmt.Errorf("get user: %w", core.ErrForbidden)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// DeleteUser removes the local record only; the identity provider account
// is left for the pool administrator.
func (s *Service) DeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return fmt.Errorf("delete user: cannot delete yourself: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return s.repo.SoftDelete(ctx, targetID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:         u.ID,
		CognitoSub: u.CognitoSub,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
	}
}

var _ auth.UserProvider = (*Service)(nil)
