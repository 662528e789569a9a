// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the auth endpoints. credentialLimit guards the
// routes that take a password or a confirmation code.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, credentialLimit func(http.Handler) http.Handler,
) {
	r.Route("/cognito-auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(credentialLimit)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/confirm", h.Confirm)
		})
		r.Post("/refresh", h.Refresh)
		r.Get("/check-email/{email}", h.CheckEmail)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Post("/logout", h.Logout)
			r.With(middleware.RequireAdmin).Post("/assign-role", h.AssignRole)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(credentialLimit)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.EnvelopeError(w, err)
		return
	}

	core.Envelope(w, http.StatusCreated, "user registered, confirmation code sent", resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.EnvelopeError(w, err)
		return
	}

	core.Envelope(w, http.StatusOK, "login successful", resp)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Confirm(r.Context(), req)
	if err != nil {
		core.EnvelopeError(w, err)
		return
	}

	core.Envelope(w, http.StatusOK, "user confirmed", resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), req)
	if err != nil {
		core.EnvelopeError(w, err)
		return
	}

	core.Envelope(w, http.StatusOK, "token refreshed", resp)
}

func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := h.validator.Var(email, "required,email"); err != nil {
		core.Envelope(w, http.StatusBadRequest, "a valid email is required", nil)
		return
	}

	available, err := h.service.CheckEmail(r.Context(), email)
	if err != nil {
		core.EnvelopeError(w, err)
		return
	}

	msg := "email is available"
	if !available {
		msg = "email is already registered"
	}

	core.JSON(w, http.StatusOK, CheckEmailResponse{
		StatusCode: http.StatusOK,
		Available:  available,
		Message:    msg,
	})
}

func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req AssignRoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.AssignRole(r.Context(), req)
	if err != nil {
		core.EnvelopeError(w, err)
		return
	}

	core.Envelope(w, http.StatusOK, "role assigned", resp)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		core.EnvelopeError(w, core.UnauthorizedError(""))
		return
	}

	core.Envelope(w, http.StatusOK, "current user", MeResponse{
		ID:    principal.ID,
		Email: principal.Email,
		Role:  principal.Role,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.ExtractToken(r)); err != nil {
		core.EnvelopeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.Envelope(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.Envelope(w, http.StatusBadRequest, core.FormatValidationError(err), nil)
		return false
	}

	return true
}
