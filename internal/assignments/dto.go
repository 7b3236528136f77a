package assignments

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/internal/riders"
	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
)

// AssignmentDTO is the transport shape for assignment ledger entries.
type AssignmentDTO struct {
	ID            uuid.UUID              `json:"id"`
	OrderID       uuid.UUID              `json:"orderId"`
	RiderID       uuid.UUID              `json:"riderId"`
	UserID        uuid.UUID              `json:"userId"`
	Status        enums.AssignmentStatus `json:"status"`
	AssignedAt    time.Time              `json:"assignedAt"`
	PickedUpAt    *time.Time             `json:"pickedUpAt,omitempty"`
	DeliveredAt   *time.Time             `json:"deliveredAt,omitempty"`
	CancelledAt   *time.Time             `json:"cancelledAt,omitempty"`
	Notes         string                 `json:"notes"`
	DeliveryProof []string               `json:"deliveryProof"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// AssignInput binds one order to one rider.
type AssignInput struct {
	OrderID uuid.UUID
	RiderID uuid.UUID
	UserID  uuid.UUID
	Notes   string
}

// BulkAssignInput carries a batch of requested bindings.
type BulkAssignInput struct {
	Items []AssignInput
}

// UpdateInput is the admin patch surface.
type UpdateInput struct {
	Notes  *string
	Status *enums.AssignmentStatus
}

// StatsResult aggregates ledger entries by status.
type StatsResult struct {
	Total    int64                            `json:"total"`
	ByStatus map[enums.AssignmentStatus]int64 `json:"byStatus"`
}

// StatusHistoryEntry is one milestone on the tracking timeline.
type StatusHistoryEntry struct {
	Status enums.AssignmentStatus `json:"status"`
	At     time.Time              `json:"at"`
}

// TrackingDTO is the public tracking projection: the entry, the rider's
// public fields, the order, and the milestone timeline. Cancellation is
// deliberately absent from the timeline.
type TrackingDTO struct {
	Assignment    AssignmentDTO        `json:"assignment"`
	Rider         *riders.PublicRiderDTO `json:"rider,omitempty"`
	Order         *orders.OrderDTO     `json:"order,omitempty"`
	StatusHistory []StatusHistoryEntry `json:"statusHistory"`
}

func FromModel(e *models.AssignedOrder) *AssignmentDTO {
	if e == nil {
		return nil
	}
	proof := make([]string, len(e.DeliveryProof))
	copy(proof, e.DeliveryProof)
	return &AssignmentDTO{
		ID:            e.ID,
		OrderID:       e.OrderID,
		RiderID:       e.RiderID,
		UserID:        e.UserID,
		Status:        e.Status,
		AssignedAt:    e.AssignedAt,
		PickedUpAt:    e.PickedUpAt,
		DeliveredAt:   e.DeliveredAt,
		CancelledAt:   e.CancelledAt,
		Notes:         e.Notes,
		DeliveryProof: proof,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func FromModels(rows []models.AssignedOrder) []AssignmentDTO {
	out := make([]AssignmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
