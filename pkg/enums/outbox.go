package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateAssignment OutboxAggregateType = "assignment"
	AggregateOrder      OutboxAggregateType = "order"
	AggregateRider      OutboxAggregateType = "rider"
	AggregateTicket     OutboxAggregateType = "ticket"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateAssignment,
	AggregateOrder,
	AggregateRider,
	AggregateTicket,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventAssignmentCreated       OutboxEventType = "assignment_created"
	EventAssignmentReassigned    OutboxEventType = "assignment_reassigned"
	EventAssignmentStatusChanged OutboxEventType = "assignment_status_changed"
	EventPickupVerified          OutboxEventType = "pickup_verified"
	EventOrderDelivered          OutboxEventType = "order_delivered"
	EventOrderPlaced             OutboxEventType = "order_placed"
	EventOrderCancelled          OutboxEventType = "order_cancelled"
	EventTicketCreated           OutboxEventType = "ticket_created"
	EventTicketUpdated           OutboxEventType = "ticket_updated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventAssignmentCreated,
	EventAssignmentReassigned,
	EventAssignmentStatusChanged,
	EventPickupVerified,
	EventOrderDelivered,
	EventOrderPlaced,
	EventOrderCancelled,
	EventTicketCreated,
	EventTicketUpdated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
