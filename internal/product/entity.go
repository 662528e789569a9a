// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	Stock         int             `db:"stock"`
	ImageURL      *string         `db:"image_url"`
	ImagePublicID *string         `db:"image_public_id"`
	Category      *string         `db:"category"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	DeletedAt     *time.Time      `db:"deleted_at"`
}

func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

func (p *Product) HasImage() bool {
	return (p.ImageURL != nil && *p.ImageURL != "") ||
		(p.ImagePublicID != nil && *p.ImagePublicID != "")
}

func (p *Product) imageRef() (publicID, url string) {
	if p.ImagePublicID != nil {
		publicID = *p.ImagePublicID
	}
	if p.ImageURL != nil {
		url = *p.ImageURL
	}
	return publicID, url
}
