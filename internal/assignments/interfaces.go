package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for assignment ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.AssignedOrder) error
	Find(ctx context.Context, id uuid.UUID) (*models.AssignedOrder, error)
	List(ctx context.Context, params ListFilter) ([]models.AssignedOrder, int64, error)
	Update(ctx context.Context, entry *models.AssignedOrder) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ExistingPairCount(ctx context.Context, pairs []OrderRiderPair) (int64, error)
	CountForRider(ctx context.Context, riderID uuid.UUID, statuses []enums.AssignmentStatus) (int64, error)
	CountByStatus(ctx context.Context, riderID *uuid.UUID) (map[enums.AssignmentStatus]int64, error)
}

// OrderRiderPair identifies one requested binding in a bulk assign.
type OrderRiderPair struct {
	OrderID uuid.UUID
	RiderID uuid.UUID
}

// ListFilter narrows assignment listings.
type ListFilter struct {
	RiderID *uuid.UUID
	OrderID *uuid.UUID
	UserID  *uuid.UUID
	Status  *enums.AssignmentStatus
	From    *time.Time
	To      *time.Time
	Page    pagination.Params
}

// OrderSync pushes assignment milestones onto the order's own lifecycle.
// Keeping it a named collaborator makes the coupling between the two state
// machines visible and testable in isolation.
type OrderSync interface {
	MarkConfirmed(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, at time.Time) error
	MarkDelivered(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, at time.Time) error
}

// Locker serializes workflow calls touching the same entry or order.
type Locker interface {
	Acquire(ctx context.Context, scope, id string) (release func(), err error)
}
