package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	Find(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ExistsAll(ctx context.Context, ids []uuid.UUID) (missing []uuid.UUID, err error)
	List(ctx context.Context, params ListFilter) ([]models.Order, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, at time.Time) error
	Update(ctx context.Context, order *models.Order) error
}

// ListFilter narrows order listings.
type ListFilter struct {
	UserID  *uuid.UUID
	StoreID *uuid.UUID
	Status  *enums.OrderStatus
	Page    pagination.Params
}

// CouponApplier computes the discount for an order total. It returns the
// discount in cents; a nil applier disables coupon support.
type CouponApplier interface {
	Apply(ctx context.Context, code string, userID, orderID uuid.UUID, subtotalCents int) (int, error)
}
