// AngelaMos | 2026
// dto.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=3,max=50"`
	Description string          `json:"description" validate:"required,min=20,max=500"`
	Price       decimal.Decimal `json:"price"       validate:"gt=0,lte=9999999999.99"`
	Stock       *int            `json:"stock"       validate:"omitempty,gte=0,max=2147483647"`
	Category    *string         `json:"category"    validate:"omitempty,max=50"`
	ImageURL    *string         `json:"imageUrl"    validate:"omitempty,url"`
}

// UpdateProductRequest is a partial update: nil fields are left alone.
type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=3,max=50"`
	Description *string          `json:"description" validate:"omitempty,min=20,max=500"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gt=0,lte=9999999999.99"`
	Stock       *int             `json:"stock"       validate:"omitempty,gte=0,max=2147483647"`
	Category    *string          `json:"category"    validate:"omitempty,max=50"`
	ImageURL    *string          `json:"imageUrl"    validate:"omitempty,url"`
}

type BulkCreateRequest struct {
	Products []CreateProductRequest `json:"products" validate:"required,min=1,max=500,dive"`
}

type DecrementStockRequest struct {
	Quantity int `json:"quantity"`
}

type ListProductsParams struct {
	Page     int
	PageSize int
	Category string
	Search   string
}

func (p *ListProductsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListProductsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	Category    *string         `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}
