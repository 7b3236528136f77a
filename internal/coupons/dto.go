package coupons

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
)

// CouponDTO is the transport shape for promotional codes.
type CouponDTO struct {
	ID               uuid.UUID        `json:"id"`
	Code             string           `json:"code"`
	Type             enums.CouponType `json:"type"`
	Value            decimal.Decimal  `json:"value"`
	MinOrderCents    int              `json:"minOrderCents"`
	MaxDiscountCents *int             `json:"maxDiscountCents,omitempty"`
	ValidFrom        time.Time        `json:"validFrom"`
	ValidTo          time.Time        `json:"validTo"`
	UsageLimit       *int             `json:"usageLimit,omitempty"`
	PerUserLimit     *int             `json:"perUserLimit,omitempty"`
	UsedCount        int              `json:"usedCount"`
	IsActive         bool             `json:"isActive"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// CreateCouponInput is the admin creation surface.
type CreateCouponInput struct {
	Code             string           `json:"code" validate:"required"`
	Type             enums.CouponType `json:"type" validate:"required"`
	Value            decimal.Decimal  `json:"value" validate:"required"`
	MinOrderCents    int              `json:"minOrderCents" validate:"gte=0"`
	MaxDiscountCents *int             `json:"maxDiscountCents,omitempty" validate:"omitempty,gt=0"`
	ValidFrom        time.Time        `json:"validFrom" validate:"required"`
	ValidTo          time.Time        `json:"validTo" validate:"required"`
	UsageLimit       *int             `json:"usageLimit,omitempty" validate:"omitempty,gt=0"`
	PerUserLimit     *int             `json:"perUserLimit,omitempty" validate:"omitempty,gt=0"`
}

// UpdateCouponInput is the admin patch surface.
type UpdateCouponInput struct {
	Value            *decimal.Decimal `json:"value,omitempty"`
	MinOrderCents    *int             `json:"minOrderCents,omitempty" validate:"omitempty,gte=0"`
	MaxDiscountCents *int             `json:"maxDiscountCents,omitempty" validate:"omitempty,gt=0"`
	ValidTo          *time.Time       `json:"validTo,omitempty"`
	UsageLimit       *int             `json:"usageLimit,omitempty" validate:"omitempty,gt=0"`
	PerUserLimit     *int             `json:"perUserLimit,omitempty" validate:"omitempty,gt=0"`
	IsActive         *bool            `json:"isActive,omitempty"`
}

// ValidationResult is the preview returned by the validate endpoint.
type ValidationResult struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	DiscountCents int    `json:"discountCents"`
	FreeDelivery  bool   `json:"freeDelivery"`
}

// FromModel maps a database coupon onto its DTO.
func FromModel(c *models.Coupon) *CouponDTO {
	if c == nil {
		return nil
	}
	return &CouponDTO{
		ID:               c.ID,
		Code:             c.Code,
		Type:             c.Type,
		Value:            c.Value,
		MinOrderCents:    c.MinOrderCents,
		MaxDiscountCents: c.MaxDiscountCents,
		ValidFrom:        c.ValidFrom,
		ValidTo:          c.ValidTo,
		UsageLimit:       c.UsageLimit,
		PerUserLimit:     c.PerUserLimit,
		UsedCount:        c.UsedCount,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// FromModels maps a slice of coupons.
func FromModels(rows []models.Coupon) []CouponDTO {
	out := make([]CouponDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
