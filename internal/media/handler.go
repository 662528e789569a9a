// AngelaMos | 2026
// handler.go

package media

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
)

const (
	formField = "file"

	// multipart framing on top of the file itself
	formOverhead = 1 << 20
)

type Store interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}

type Handler struct {
	store    Store
	maxBytes int64
}

func NewHandler(store Store, maxBytes int64) *Handler {
	return &Handler{store: store, maxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/cloudinary", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireAdmin)

		r.Post("/upload", h.Upload)
		r.Delete("/*", h.Delete)
	})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)

	file, header, err := r.FormFile(formField)
	if err != nil {
		core.BadRequest(w, "multipart field \"file\" is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	asset, err := h.store.Upload(r.Context(), file, header.Filename)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, asset)
}

// Delete takes the public id from the rest of the path, so folder ids such
// as storefront/mug work with or without escaping.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	publicID, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || publicID == "" {
		core.BadRequest(w, "public id is required")
		return
	}

	if err := h.store.Delete(r.Context(), publicID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
