// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type CatalogCounts struct {
	ActiveProducts  int `db:"active_products"  json:"active_products"`
	DeletedProducts int `db:"deleted_products" json:"deleted_products"`
	Users           int `db:"users"            json:"users"`
	CartItems       int `db:"cart_items"       json:"cart_items"`
	WishlistItems   int `db:"wishlist_items"   json:"wishlist_items"`
}

type StatsRepository interface {
	CatalogCounts(ctx context.Context) (*CatalogCounts, error)
}

type statsRepository struct {
	db core.DBTX
}

func NewStatsRepository(db core.DBTX) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CatalogCounts(ctx context.Context) (*CatalogCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE deleted_at IS NULL)     AS active_products,
			(SELECT COUNT(*) FROM products WHERE deleted_at IS NOT NULL) AS deleted_products,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL)        AS users,
			(SELECT COUNT(*) FROM cart_items)                            AS cart_items,
			(SELECT COUNT(*) FROM wishlist_items)                        AS wishlist_items`

	var counts CatalogCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("catalog counts: %w", err)
	}

	return &counts, nil
}
