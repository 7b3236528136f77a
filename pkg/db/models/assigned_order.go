package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/velomart/velomart-backend/pkg/enums"
)

// AssignedOrder is the ledger entry binding an order to a rider. One order
// may accumulate multiple entries over its life (reassignments create new
// rider bindings in place, deletes remove entries), but a given
// (order, rider) pair appears at most once.
type AssignedOrder struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID              `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_assigned_orders_order_rider,priority:1"`
	RiderID       uuid.UUID              `gorm:"column:rider_id;type:uuid;not null;uniqueIndex:uq_assigned_orders_order_rider,priority:2;index"`
	UserID        uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Status        enums.AssignmentStatus `gorm:"column:status;type:text;not null;default:'assigned'"`
	AssignedAt    time.Time              `gorm:"column:assigned_at;not null"`
	PickedUpAt    *time.Time             `gorm:"column:picked_up_at"`
	DeliveredAt   *time.Time             `gorm:"column:delivered_at"`
	CancelledAt   *time.Time             `gorm:"column:cancelled_at"`
	Notes         string                 `gorm:"column:notes;type:text;not null;default:''"`
	DeliveryProof pq.StringArray         `gorm:"column:delivery_proof;type:text[]"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
