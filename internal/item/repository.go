// AngelaMos | 2026
// repository.go

package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

// Every query that touches an existing row is scoped by user_id so one
// account can never read or change another account's items.
type Repository interface {
	WithTx(tx core.DBTX) Repository
	LockActiveProduct(ctx context.Context, productID string) error
	UpsertCartItem(ctx context.Context, id, userID, productID string, quantity int) (string, error)
	GetCartItem(ctx context.Context, userID, id string) (*CartItem, error)
	ListCart(ctx context.Context, userID string) ([]CartItem, error)
	SetCartQuantity(ctx context.Context, userID, id string, quantity int) error
	DeleteCartItem(ctx context.Context, userID, id string) error
	ClearCart(ctx context.Context, userID string) (int64, error)
	InsertWishlistItem(ctx context.Context, id, userID, productID string) error
	GetWishlistItemByProduct(ctx context.Context, userID, productID string) (*WishlistItem, error)
	ListWishlist(ctx context.Context, userID string) ([]WishlistItem, error)
	DeleteWishlistItem(ctx context.Context, userID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

const embeddedProduct = `
	p.id AS "product.id", p.name AS "product.name",
	p.description AS "product.description", p.price AS "product.price",
	p.stock AS "product.stock", p.image_url AS "product.image_url",
	p.image_public_id AS "product.image_public_id", p.category AS "product.category",
	p.created_at AS "product.created_at", p.updated_at AS "product.updated_at",
	p.deleted_at AS "product.deleted_at"`

const cartSelect = `
	SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at,` + embeddedProduct + `
	FROM cart_items c
	JOIN products p ON p.id = c.product_id`

const wishlistSelect = `
	SELECT w.id, w.user_id, w.product_id, w.created_at,` + embeddedProduct + `
	FROM wishlist_items w
	JOIN products p ON p.id = w.product_id`

// LockActiveProduct takes a share lock so the product cannot be soft
// deleted while the cart row referencing it is written.
func (r *repository) LockActiveProduct(ctx context.Context, productID string) error {
	query := `
		SELECT id FROM products
		WHERE id = $1 AND deleted_at IS NULL
		FOR SHARE`

	var id string
	err := r.db.GetContext(ctx, &id, query, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("lock product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock product: %w", err)
	}

	return nil
}

// UpsertCartItem adds quantity to the existing (user, product) row or
// inserts a new one. It returns the id of the row that now holds the total.
func (r *repository) UpsertCartItem(
	ctx context.Context,
	id, userID, productID string,
	quantity int,
) (string, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id`

	var rowID string
	if err := r.db.GetContext(ctx, &rowID, query, id, userID, productID, quantity); err != nil {
		return "", fmt.Errorf("upsert cart item: %w", mapWriteError(err))
	}

	return rowID, nil
}

func (r *repository) GetCartItem(ctx context.Context, userID, id string) (*CartItem, error) {
	query := cartSelect + `
		WHERE c.id = $1 AND c.user_id = $2`

	var item CartItem
	err := r.db.GetContext(ctx, &item, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cart item: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}

	return &item, nil
}

func (r *repository) ListCart(ctx context.Context, userID string) ([]CartItem, error) {
	query := cartSelect + `
		WHERE c.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY c.created_at DESC, c.id`

	items := []CartItem{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	return items, nil
}

func (r *repository) SetCartQuantity(
	ctx context.Context,
	userID, id string,
	quantity int,
) error {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", mapWriteError(err))
	}

	return requireRow(result, "update cart item")
}

func (r *repository) DeleteCartItem(ctx context.Context, userID, id string) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	return requireRow(result, "delete cart item")
}

func (r *repository) ClearCart(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}

	return rows, nil
}

// InsertWishlistItem is a no-op when the product is already on the list.
func (r *repository) InsertWishlistItem(ctx context.Context, id, userID, productID string) error {
	query := `
		INSERT INTO wishlist_items (id, user_id, product_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, id, userID, productID); err != nil {
		return fmt.Errorf("insert wishlist item: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) GetWishlistItemByProduct(
	ctx context.Context,
	userID, productID string,
) (*WishlistItem, error) {
	query := wishlistSelect + `
		WHERE w.user_id = $1 AND w.product_id = $2`

	var item WishlistItem
	err := r.db.GetContext(ctx, &item, query, userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get wishlist item: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}

	return &item, nil
}

func (r *repository) ListWishlist(ctx context.Context, userID string) ([]WishlistItem, error) {
	query := wishlistSelect + `
		WHERE w.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY w.created_at DESC, w.id`

	items := []WishlistItem{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	return items, nil
}

func (r *repository) DeleteWishlistItem(ctx context.Context, userID, id string) error {
	query := `DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}

	return requireRow(result, "delete wishlist item")
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case core.IsForeignKeyViolation(err):
		return core.ErrNotFound
	case core.IsCheckViolation(err):
		return core.ErrInvalidInput
	case core.IsOutOfRange(err):
		return core.ErrOutOfRange
	default:
		return err
	}
}
