// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=256"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=256,password"`
}

type ConfirmRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Pin   string `json:"pin"   validate:"required,min=4,max=10"`
}

// RefreshRequest carries the email only when the app client has a secret.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
	Email        string `json:"email"        validate:"omitempty,email"`
}

type AssignRoleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=USER ADMIN"`
}

type RegisterResponse struct {
	Email         string `json:"email"`
	UserConfirmed bool   `json:"userConfirmed"`
	Role          string `json:"role"`
}

type LoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	IDToken      string     `json:"idToken"`
	TokenType    string     `json:"tokenType,omitempty"`
	ExpiresIn    int32      `json:"expiresIn"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Role         string     `json:"role"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int32  `json:"expiresIn"`
}

type ConfirmResponse struct {
	UserConfirmed bool `json:"userConfirmed"`
}

type CheckEmailResponse struct {
	StatusCode int    `json:"statusCode"`
	Available  bool   `json:"available"`
	Message    string `json:"message"`
}

type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AssignRoleResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
