package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// Order represents a customer order placed against a store. Amounts are
// stored in cents.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	StoreID         uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cod'"`
	SubtotalCents   int                 `gorm:"column:subtotal_cents;not null"`
	DeliveryCents   int                 `gorm:"column:delivery_cents;not null;default:0"`
	DiscountCents   int                 `gorm:"column:discount_cents;not null;default:0"`
	TotalCents      int                 `gorm:"column:total_cents;not null"`
	CouponCode      *string             `gorm:"column:coupon_code"`
	DeliveryAddress types.Location      `gorm:"column:delivery_address;type:jsonb;serializer:json;not null"`
	Notes           *string             `gorm:"column:notes"`
	ConfirmedAt     *time.Time          `gorm:"column:confirmed_at"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at"`
	CancelledAt     *time.Time          `gorm:"column:cancelled_at"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a single line on an order.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	StoreItemID    uuid.UUID `gorm:"column:store_item_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
}
