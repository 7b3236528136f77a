package coupons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for coupons and their redemptions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, coupon *models.Coupon) error
	Find(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context, params ListFilter) ([]models.Coupon, int64, error)
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// ClaimUse bumps used_count if the usage limit has headroom. Returns
	// false when the limit is exhausted.
	ClaimUse(ctx context.Context, id uuid.UUID) (bool, error)
	RecordUsage(ctx context.Context, usage *models.CouponUsage) error
	CountUsageForUser(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
}

// ListFilter narrows coupon listings.
type ListFilter struct {
	Active *bool
	Page   pagination.Params
}
