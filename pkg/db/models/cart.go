package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single active cart for a member. TotalAmountCents is derived
// from the items and recomputed inside every mutating transaction, never
// adjusted incrementally.
type Cart struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_carts_user_id"`
	TotalAmountCents int64      `gorm:"column:total_amount_cents;not null;default:0"`
	Items            []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
