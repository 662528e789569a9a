// AngelaMos | 2026
// handler.go

package item

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

// RegisterRoutes mounts /items. The group admits USER and ADMIN but every
// route narrows that to USER, so admins are turned away with 403.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	userOnly := middleware.RequireRole(core.RoleUser)

	r.Route("/items", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireRole(core.RoleUser, core.RoleAdmin))

		r.Route("/cart", func(r chi.Router) {
			r.With(userOnly).Post("/", h.AddToCart)
			r.With(userOnly).Get("/", h.GetCart)
			r.With(userOnly).Delete("/", h.ClearCart)
			r.With(userOnly).Patch("/{itemID}", h.UpdateCartItem)
			r.With(userOnly).Delete("/{itemID}", h.RemoveCartItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.With(userOnly).Post("/", h.AddToWishlist)
			r.With(userOnly).Get("/", h.GetWishlist)
			r.With(userOnly).Delete("/{itemID}", h.RemoveFromWishlist)
		})
	})
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.AddToCart(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.ProductID,
		req.Qty(),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToCartItemResponse(item))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetCart(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCartItemResponseList(items))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r, "cart item")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.UpdateCartItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		*req.Quantity,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if item == nil {
		core.NoContent(w)
		return
	}

	core.OK(w, ToCartItemResponse(item))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r, "cart item")
	if !ok {
		return
	}

	if err := h.service.RemoveCartItem(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req AddToWishlistRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.service.AddToWishlist(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.ProductID,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToWishlistItemResponse(item))
}

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetWishlist(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToWishlistItemResponseList(items))
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r, "wishlist item")
	if !ok {
		return
	}

	if err := h.service.RemoveFromWishlist(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}
	return true
}

func itemID(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := chi.URLParam(r, "itemID")
	if !core.IsValidID(id) {
		core.NotFound(w, resource)
		return "", false
	}
	return id, true
}
