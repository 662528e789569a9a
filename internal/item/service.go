// AngelaMos | 2026
// service.go

package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/metrics"
)

type Service struct {
	repo    Repository
	tx      core.TxRunner
	metrics metrics.Recorder
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	tx core.TxRunner,
	rec metrics.Recorder,
	logger *slog.Logger,
) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		tx:      tx,
		metrics: rec,
		logger:  logger,
	}
}

// AddToCart checks the product and upserts the cart row in one
// transaction. Adding a product already in the cart increases its quantity.
func (s *Service) AddToCart(
	ctx context.Context,
	userID, productID string,
	quantity int,
) (*CartItem, error) {
	if quantity <= 0 {
		return nil, core.BadRequestError("quantity must be greater than 0")
	}

	var item *CartItem

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := repo.LockActiveProduct(ctx, productID); err != nil {
			return err
		}

		rowID, err := repo.UpsertCartItem(ctx, uuid.New().String(), userID, productID, quantity)
		if err != nil {
			return err
		}

		item, err = repo.GetCartItem(ctx, userID, rowID)
		return err
	})
	if err != nil {
		return nil, mapItemError(err, "product")
	}

	s.metrics.RecordCartAdd(quantity)
	s.logger.DebugContext(ctx, "cart item added",
		"user_id", userID,
		"product_id", productID,
		"quantity", item.Quantity,
	)

	return item, nil
}

func (s *Service) GetCart(ctx context.Context, userID string) ([]CartItem, error) {
	return s.repo.ListCart(ctx, userID)
}

// UpdateCartItem overwrites the quantity. A quantity of zero or less
// removes the row, reported by a nil item.
func (s *Service) UpdateCartItem(
	ctx context.Context,
	userID, id string,
	quantity int,
) (*CartItem, error) {
	if quantity <= 0 {
		if err := s.RemoveCartItem(ctx, userID, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := s.repo.SetCartQuantity(ctx, userID, id, quantity); err != nil {
		return nil, mapItemError(err, "cart item")
	}

	item, err := s.repo.GetCartItem(ctx, userID, id)
	if err != nil {
		return nil, mapItemError(err, "cart item")
	}

	return item, nil
}

func (s *Service) RemoveCartItem(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteCartItem(ctx, userID, id); err != nil {
		return mapItemError(err, "cart item")
	}
	return nil
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	removed, err := s.repo.ClearCart(ctx, userID)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "cart cleared", "user_id", userID, "removed", removed)

	return nil
}

// AddToWishlist is idempotent: adding a product twice returns the row
// created the first time.
func (s *Service) AddToWishlist(
	ctx context.Context,
	userID, productID string,
) (*WishlistItem, error) {
	var item *WishlistItem

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := repo.LockActiveProduct(ctx, productID); err != nil {
			return err
		}

		if err := repo.InsertWishlistItem(ctx, uuid.New().String(), userID, productID); err != nil {
			return err
		}

		var err error
		item, err = repo.GetWishlistItemByProduct(ctx, userID, productID)
		return err
	})
	if err != nil {
		return nil, mapItemError(err, "product")
	}

	return item, nil
}

func (s *Service) GetWishlist(ctx context.Context, userID string) ([]WishlistItem, error) {
	return s.repo.ListWishlist(ctx, userID)
}

func (s *Service) RemoveFromWishlist(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteWishlistItem(ctx, userID, id); err != nil {
		return mapItemError(err, "wishlist item")
	}
	return nil
}

func mapItemError(err error, resource string) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError(resource)
	case errors.Is(err, core.ErrOutOfRange):
		return core.BadRequestError("quantity is too large")
	case errors.Is(err, core.ErrInvalidInput):
		return core.BadRequestError("quantity must be greater than 0")
	default:
		return fmt.Errorf("%s: %w", resource, err)
	}
}
