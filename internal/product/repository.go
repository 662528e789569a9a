// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type Repository interface {
	WithTx(tx core.DBTX) Repository
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, params ListProductsParams) ([]Product, int, error)
	Update(ctx context.Context, p *Product) error
	SoftDelete(ctx context.Context, id string) (*Product, error)
	Restore(ctx context.Context, id string) (*Product, error)
	SetStock(ctx context.Context, id string, stock int) (*Product, error)
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

const productColumns = `id, name, description, price, stock, image_url, image_public_id,
	category, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, image_url, image_public_id, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Stock,
		p.ImageURL,
		p.ImagePublicID,
		p.Category,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	return r.getActive(ctx, id, "")
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *repository) GetByIDForUpdate(ctx context.Context, id string) (*Product, error) {
	return r.getActive(ctx, id, " FOR UPDATE")
}

func (r *repository) getActive(ctx context.Context, id, lock string) (*Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND deleted_at IS NULL` + lock

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	params.Normalize()

	conditions := []string{"deleted_at IS NULL"}
	var args []any
	argIdx := 1

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+productColumns+`
		FROM products
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5,
			image_url = $6, image_public_id = $7, category = $8, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Stock,
		p.ImageURL,
		p.ImagePublicID,
		p.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", mapWriteError(err))
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) (*Product, error) {
	query := `
		UPDATE products
		SET deleted_at = NOW(), updated_at = NOW(), image_url = NULL, image_public_id = NULL
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + productColumns

	return r.returning(ctx, "delete product", query, id)
}

func (r *repository) Restore(ctx context.Context, id string) (*Product, error) {
	query := `
		UPDATE products
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING ` + productColumns

	return r.returning(ctx, "restore product", query, id)
}

func (r *repository) SetStock(ctx context.Context, id string, stock int) (*Product, error) {
	query := `
		UPDATE products
		SET stock = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + productColumns

	return r.returning(ctx, "set stock", query, id, stock)
}

func (r *repository) returning(
	ctx context.Context,
	op, query string,
	args ...any,
) (*Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapWriteError(err))
	}
	return &p, nil
}

func mapWriteError(err error) error {
	switch {
	case core.IsUniqueViolation(err):
		return core.ErrDuplicateKey
	case core.IsCheckViolation(err):
		return core.ErrInvalidInput
	case core.IsOutOfRange(err):
		return core.ErrOutOfRange
	default:
		return err
	}
}
