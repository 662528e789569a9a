// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/media"
)

// MediaStore is implemented by *media.Service.
type MediaStore interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*media.Asset, error)
	Discard(ctx context.Context, publicID, url string)
}

// Image is an uploaded file attached to a create or update request.
type Image struct {
	Reader   io.Reader
	Filename string
}

type Service struct {
	repo   Repository
	tx     core.TxRunner
	media  MediaStore
	logger *slog.Logger
}

func NewService(
	repo Repository,
	tx core.TxRunner,
	store MediaStore,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		tx:     tx,
		media:  store,
		logger: logger,
	}
}

// Create uploads the image first, then inserts. If the insert fails the
// freshly uploaded asset is discarded again.
func (s *Service) Create(
	ctx context.Context,
	req CreateProductRequest,
	img *Image,
) (*Product, error) {
	p := newProduct(req)

	var asset *media.Asset
	if img != nil {
		var err error
		asset, err = s.media.Upload(ctx, img.Reader, img.Filename)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		p.ImageURL = &asset.URL
		p.ImagePublicID = &asset.PublicID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if asset != nil {
			s.media.Discard(ctx, asset.PublicID, asset.URL)
		}
		return nil, mapProductError(err)
	}

	s.logger.InfoContext(ctx, "product created", "product_id", p.ID, "name", p.Name)

	return p, nil
}

// BulkCreate inserts every product or none of them.
func (s *Service) BulkCreate(
	ctx context.Context,
	reqs []CreateProductRequest,
) ([]Product, error) {
	if len(reqs) == 0 {
		return nil, core.BadRequestError("product list cannot be empty")
	}

	ctx, span := core.StartSpan(ctx, "product.BulkCreate", attribute.Int("count", len(reqs)))
	defer span.End()

	created := make([]Product, 0, len(reqs))

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)
		for i, req := range reqs {
			p := newProduct(req)
			if err := repo.Create(ctx, p); err != nil {
				return fmt.Errorf("product %d (%s): %w", i, req.Name, err)
			}
			created = append(created, *p)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) ||
			errors.Is(err, core.ErrInvalidInput) ||
			errors.Is(err, core.ErrOutOfRange) {
			return nil, core.BadRequestError("bulk create rejected: " + err.Error())
		}
		return nil, fmt.Errorf("bulk create: %w", err)
	}

	s.logger.InfoContext(ctx, "products bulk created", "count", len(created))

	return created, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}
	return p, nil
}

// Update applies a partial change to the row as it stands under lock, so a
// stock decrement committed while the request was in flight is not
// overwritten. A replacement image is uploaded before the transaction opens
// and the previous one is discarded only after the row points at the new
// asset.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateProductRequest,
	img *Image,
) (*Product, error) {
	var asset *media.Asset
	if img != nil {
		var err error
		asset, err = s.media.Upload(ctx, img.Reader, img.Filename)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
	}

	var (
		updated  *Product
		hadImage bool
		replaced bool
		oldID    string
		oldURL   string
	)

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		p, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		applyUpdate(p, req)

		hadImage = p.HasImage()
		oldID, oldURL = p.imageRef()

		switch {
		case asset != nil:
			p.ImageURL = &asset.URL
			p.ImagePublicID = &asset.PublicID
			replaced = true
		case req.ImageURL != nil && *req.ImageURL != oldURL:
			p.ImageURL = req.ImageURL
			p.ImagePublicID = nil
			replaced = true
		}

		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		if asset != nil {
			s.media.Discard(ctx, asset.PublicID, asset.URL)
		}
		return nil, mapProductError(err)
	}

	if replaced && hadImage {
		s.media.Discard(ctx, oldID, oldURL)
	}

	return updated, nil
}

// SoftDelete hides the product and drops its image.
func (s *Service) SoftDelete(ctx context.Context, id string) (*Product, error) {
	var (
		deleted     *Product
		hadImage    bool
		publicID    string
		previousURL string
	)

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		hadImage = current.HasImage()
		publicID, previousURL = current.imageRef()

		deleted, err = repo.SoftDelete(ctx, id)
		return err
	})
	if err != nil {
		return nil, mapProductError(err)
	}

	if hadImage {
		s.media.Discard(ctx, publicID, previousURL)
	}

	s.logger.InfoContext(ctx, "product soft deleted", "product_id", id)

	return deleted, nil
}

func (s *Service) Restore(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	s.logger.InfoContext(ctx, "product restored", "product_id", id)

	return p, nil
}

// DecrementStock checks and decrements under a row lock so concurrent
// decrements cannot oversell.
func (s *Service) DecrementStock(
	ctx context.Context,
	id string,
	quantity int,
) (*Product, error) {
	if quantity <= 0 {
		return nil, core.BadRequestError("quantity must be greater than 0")
	}

	var updated *Product

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		p, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if p.Stock < quantity {
			return fmt.Errorf(
				"decrement %d of %d: %w",
				quantity,
				p.Stock,
				core.ErrInsufficientStock,
			)
		}

		updated, err = repo.SetStock(ctx, id, p.Stock-quantity)
		return err
	})
	if err != nil {
		return nil, mapProductError(err)
	}

	return updated, nil
}

func newProduct(req CreateProductRequest) *Product {
	p := &Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	return p
}

func applyUpdate(p *Product, req UpdateProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = req.Price.Round(2)
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Category != nil {
		p.Category = req.Category
	}
}

func mapProductError(err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError("product")
	case errors.Is(err, core.ErrDuplicateKey):
		return core.DuplicateError("product name")
	case errors.Is(err, core.ErrOutOfRange):
		return core.BadRequestError("price or stock is out of range")
	case errors.Is(err, core.ErrInvalidInput) && !core.IsAppError(err):
		return core.BadRequestError("product violates a catalog constraint")
	default:
		return err
	}
}
