package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line in a cart. Price and discount are snapshots
// taken when the line was first added; a later catalog edit does not touch
// existing lines.
type CartItem struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID               uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID            uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Quantity             int       `gorm:"column:quantity;not null"`
	PriceAtAdditionCents int64     `gorm:"column:price_at_addition_cents;not null"`
	DiscountAtAddition   float64   `gorm:"column:discount_at_addition;type:numeric(5,2);not null;default:0"`
	SubtotalCents        int64     `gorm:"column:subtotal_cents;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
