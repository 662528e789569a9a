// AngelaMos | 2026
// entity.go

package item

import (
	"time"

	"github.com/carterperez-dev/templates/storefront/internal/product"
)

type CartItem struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	ProductID string          `db:"product_id"`
	Quantity  int             `db:"quantity"`
	CreatedAt time.Time       `db:"created_at"`
	Product   product.Product `db:"product"`
}

type WishlistItem struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	ProductID string          `db:"product_id"`
	CreatedAt time.Time       `db:"created_at"`
	Product   product.Product `db:"product"`
}
