// AngelaMos | 2026
// dto.go

package item

import (
	"time"

	"github.com/carterperez-dev/templates/storefront/internal/product"
)

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  *int   `json:"quantity"  validate:"omitempty,gt=0,max=2147483647"`
}

// Qty defaults to one when the client leaves quantity out.
func (r AddToCartRequest) Qty() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=2147483647"`
}

type AddToWishlistRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

type CartItemResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	ProductID string                  `json:"productId"`
	Quantity  int                     `json:"quantity"`
	CreatedAt time.Time               `json:"createdAt"`
	Product   product.ProductResponse `json:"product"`
}

type WishlistItemResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	ProductID string                  `json:"productId"`
	CreatedAt time.Time               `json:"createdAt"`
	Product   product.ProductResponse `json:"product"`
}

func ToCartItemResponse(c *CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		CreatedAt: c.CreatedAt,
		Product:   product.ToProductResponse(&c.Product),
	}
}

func ToCartItemResponseList(items []CartItem) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ToCartItemResponse(&items[i]))
	}
	return out
}

func ToWishlistItemResponse(w *WishlistItem) WishlistItemResponse {
	return WishlistItemResponse{
		ID:        w.ID,
		UserID:    w.UserID,
		ProductID: w.ProductID,
		CreatedAt: w.CreatedAt,
		Product:   product.ToProductResponse(&w.Product),
	}
}

func ToWishlistItemResponseList(items []WishlistItem) []WishlistItemResponse {
	out := make([]WishlistItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ToWishlistItemResponse(&items[i]))
	}
	return out
}
