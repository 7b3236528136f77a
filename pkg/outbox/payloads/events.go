package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/enums"
)

// AssignmentCreatedEvent signals a new order-to-rider binding.
type AssignmentCreatedEvent struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	OrderID      uuid.UUID `json:"order_id"`
	RiderID      uuid.UUID `json:"rider_id"`
	UserID       uuid.UUID `json:"user_id"`
	AssignedAt   time.Time `json:"assigned_at"`
}

// AssignmentReassignedEvent is emitted when an entry moves to another rider.
type AssignmentReassignedEvent struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	OrderID      uuid.UUID `json:"order_id"`
	OldRiderID   uuid.UUID `json:"old_rider_id"`
	NewRiderID   uuid.UUID `json:"new_rider_id"`
	Reason       string    `json:"reason,omitempty"`
}

// AssignmentStatusChangedEvent reports a lifecycle transition.
type AssignmentStatusChangedEvent struct {
	AssignmentID uuid.UUID              `json:"assignment_id"`
	OrderID      uuid.UUID              `json:"order_id"`
	RiderID      uuid.UUID              `json:"rider_id"`
	From         enums.AssignmentStatus `json:"from"`
	To           enums.AssignmentStatus `json:"to"`
}

// PickupVerifiedEvent is emitted after a successful OTP check at the store.
type PickupVerifiedEvent struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	OrderID      uuid.UUID `json:"order_id"`
	RiderID      uuid.UUID `json:"rider_id"`
	PickedUpAt   time.Time `json:"picked_up_at"`
}

// OrderDeliveredEvent surfaces the completed delivery.
type OrderDeliveredEvent struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	OrderID      uuid.UUID `json:"order_id"`
	RiderID      uuid.UUID `json:"rider_id"`
	UserID       uuid.UUID `json:"user_id"`
	DeliveredAt  time.Time `json:"delivered_at"`
	ProofCount   int       `json:"proof_count"`
}

// OrderPlacedEvent signals a newly created customer order.
type OrderPlacedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	StoreID    uuid.UUID `json:"store_id"`
	TotalCents int       `json:"total_cents"`
}

// OrderCancelledEvent is emitted when a customer or admin cancels an order.
type OrderCancelledEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// TicketCreatedEvent signals a new support case.
type TicketCreatedEvent struct {
	TicketID     uuid.UUID            `json:"ticket_id"`
	TicketNumber string               `json:"ticket_number"`
	UserID       uuid.UUID            `json:"user_id"`
	Priority     enums.TicketPriority `json:"priority"`
}

// TicketUpdatedEvent reports status changes or replies on a case.
type TicketUpdatedEvent struct {
	TicketID     uuid.UUID          `json:"ticket_id"`
	TicketNumber string             `json:"ticket_number"`
	Status       enums.TicketStatus `json:"status"`
}
