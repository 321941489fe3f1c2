package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
)

// Product is the canonical catalog listing. PriceCents and DiscountPercent
// are the live values; carts and orders snapshot them, they never reference
// them back.
type Product struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string                `gorm:"column:name;not null"`
	Brand           *string               `gorm:"column:brand"`
	Description     *string               `gorm:"column:description"`
	Category        enums.ProductCategory `gorm:"column:category;not null"`
	ImageURL        *string               `gorm:"column:image_url"`
	PriceCents      int64                 `gorm:"column:price_cents;not null"`
	DiscountPercent float64               `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	StockQty        int                   `gorm:"column:stock_qty;not null;default:0"`
	AvailableQty    int                   `gorm:"column:available_qty;not null;default:0"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeSave resets available_qty when it drifts above the physical stock.
// A listing claiming more sellable units than it holds is treated as stale
// and taken off the shelf until restocked.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.AvailableQty > p.StockQty {
		p.AvailableQty = 0
	}
	return nil
}
