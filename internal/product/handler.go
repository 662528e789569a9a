// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const (
	imageField   = "image"
	formOverhead = 1 << 20
)

var errBadForm = errors.New("malformed form")

type Handler struct {
	service        *Service
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		validator:      core.NewValidator(),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{productID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Patch("/{productID}", h.Update)
			r.Delete("/{productID}", h.Delete)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/products", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/", h.Create)
		r.Post("/bulk", h.BulkCreate)
		r.Patch("/{productID}", h.Update)
		r.Delete("/{productID}", h.Delete)
		r.Post("/{productID}/restore", h.Restore)
		r.Post("/{productID}/stock/decrement", h.DecrementStock)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListProductsParams{
		Page:     parseIntQuery(q.Get("page"), 1),
		PageSize: parseIntQuery(q.Get("page_size"), 20),
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	params.Normalize()

	products, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToProductResponseList(products), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

// Create accepts JSON or multipart/form-data with an optional image part.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		req CreateProductRequest
		img *Image
	)

	if isMultipart(r) {
		form, file, err := h.parseMultipart(w, r)
		if err != nil {
			core.BadRequest(w, err.Error())
			return
		}
		if file != nil {
			defer file.Close() //nolint:errcheck // read-only multipart part
			img = &Image{Reader: file, Filename: form.filename}
		}
		if req, err = createFromForm(form.values); err != nil {
			core.BadRequest(w, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Create(r.Context(), req, img)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToProductResponse(p))
}

func (h *Handler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if len(req.Products) == 0 {
		core.BadRequest(w, "product list cannot be empty")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	products, err := h.service.BulkCreate(r.Context(), req.Products)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToProductResponseList(products))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var (
		req UpdateProductRequest
		img *Image
	)

	if isMultipart(r) {
		form, file, err := h.parseMultipart(w, r)
		if err != nil {
			core.BadRequest(w, err.Error())
			return
		}
		if file != nil {
			defer file.Close() //nolint:errcheck // read-only multipart part
			img = &Image{Reader: file, Filename: form.filename}
		}
		if req, err = updateFromForm(form.values); err != nil {
			core.BadRequest(w, err.Error())
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Update(r.Context(), id, req, img)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.service.SoftDelete(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Restore(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) DecrementStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req DecrementStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	p, err := h.service.DecrementStock(r.Context(), id, req.Quantity)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

type multipartForm struct {
	values   map[string][]string
	filename string
}

func (h *Handler) parseMultipart(
	w http.ResponseWriter,
	r *http.Request,
) (*multipartForm, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+formOverhead)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, nil, errBadForm
	}

	form := &multipartForm{values: r.MultipartForm.Value}

	file, header, err := r.FormFile(imageField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return form, nil, nil
	case err != nil:
		return nil, nil, errBadForm
	}

	form.filename = header.Filename
	return form, file, nil
}

func createFromForm(values map[string][]string) (CreateProductRequest, error) {
	req := CreateProductRequest{
		Name:        formValue(values, "name"),
		Description: formValue(values, "description"),
		Category:    optionalFormValue(values, "category"),
		ImageURL:    optionalFormValue(values, "imageUrl"),
	}

	price, err := decimal.NewFromString(formValue(values, "price"))
	if err != nil {
		return req, errors.New("price must be a number")
	}
	req.Price = price

	if raw := optionalFormValue(values, "stock"); raw != nil {
		stock, err := strconv.Atoi(*raw)
		if err != nil {
			return req, errors.New("stock must be an integer")
		}
		req.Stock = &stock
	}

	return req, nil
}

func updateFromForm(values map[string][]string) (UpdateProductRequest, error) {
	req := UpdateProductRequest{
		Name:        optionalFormValue(values, "name"),
		Description: optionalFormValue(values, "description"),
		Category:    optionalFormValue(values, "category"),
		ImageURL:    optionalFormValue(values, "imageUrl"),
	}

	if raw := optionalFormValue(values, "price"); raw != nil {
		price, err := decimal.NewFromString(*raw)
		if err != nil {
			return req, errors.New("price must be a number")
		}
		req.Price = &price
	}

	if raw := optionalFormValue(values, "stock"); raw != nil {
		stock, err := strconv.Atoi(*raw)
		if err != nil {
			return req, errors.New("stock must be an integer")
		}
		req.Stock = &stock
	}

	return req, nil
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func optionalFormValue(values map[string][]string, key string) *string {
	v := formValue(values, key)
	if v == "" {
		return nil
	}
	return &v
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func productID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "productID")
	if !core.IsValidID(id) {
		core.NotFound(w, "product")
		return "", false
	}
	return id, true
}

func parseIntQuery(val string, defaultVal int) int {
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
