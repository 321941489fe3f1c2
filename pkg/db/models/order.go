package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	"github.com/freshkart-dev/freshkart-backend/pkg/types"
)

// Order is the immutable ledger record of a placed order. Only the status
// fields, payment_id and delivered_at may change after creation.
type Order struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index:idx_orders_user_created,priority:1"`
	DeliveryAddress  types.DeliveryAddress `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	SubtotalCents    int64                 `gorm:"column:subtotal_cents;not null"`
	ShippingFeeCents int64                 `gorm:"column:shipping_fee_cents;not null;default:0"`
	TotalAmountCents int64                 `gorm:"column:total_amount_cents;not null"`
	PaymentMethod    enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	PaymentStatus    enums.PaymentStatus   `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentID        *string               `gorm:"column:payment_id"`
	OrderStatus      enums.OrderStatus     `gorm:"column:order_status;not null;default:'pending'"`
	DeliveredAt      *time.Time            `gorm:"column:delivered_at"`
	Items            []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime;index:idx_orders_user_created,priority:2,sort:desc"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
