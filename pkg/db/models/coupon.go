package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velomart/velomart-backend/pkg/enums"
)

// Coupon is a promotional discount code. Value is a percentage for
// percentage coupons and a cent amount for fixed coupons.
type Coupon struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string           `gorm:"column:code;type:text;not null;uniqueIndex"`
	Type             enums.CouponType `gorm:"column:type;type:text;not null"`
	Value            decimal.Decimal  `gorm:"column:value;type:numeric(12,4);not null"`
	MinOrderCents    int              `gorm:"column:min_order_cents;not null;default:0"`
	MaxDiscountCents *int             `gorm:"column:max_discount_cents"`
	ValidFrom        time.Time        `gorm:"column:valid_from;not null"`
	ValidTo          time.Time        `gorm:"column:valid_to;not null"`
	UsageLimit       *int             `gorm:"column:usage_limit"`
	PerUserLimit     *int             `gorm:"column:per_user_limit"`
	UsedCount        int              `gorm:"column:used_count;not null;default:0"`
	IsActive         bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// CouponUsage records a single redemption of a coupon by a user.
type CouponUsage struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID      uuid.UUID `gorm:"column:coupon_id;type:uuid;not null;index:idx_coupon_usages_coupon_user,priority:1"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_coupon_usages_coupon_user,priority:2"`
	OrderID       uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	DiscountCents int       `gorm:"column:discount_cents;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
