package enums

import "fmt"

// AssignmentStatus is the delivery lifecycle of an assigned order. It is
// independent of OrderStatus; the two are synced only at pickup verification
// and delivery.
type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusPickedUp  AssignmentStatus = "picked-up"
	AssignmentStatusInTransit AssignmentStatus = "in-transit"
	AssignmentStatusDelivered AssignmentStatus = "delivered"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusAssigned,
	AssignmentStatusPickedUp,
	AssignmentStatusInTransit,
	AssignmentStatusDelivered,
	AssignmentStatusCancelled,
}

// assignmentTransitions is the only legal edge set. delivered and cancelled
// are terminal.
var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusAssigned:  {AssignmentStatusPickedUp, AssignmentStatusCancelled},
	AssignmentStatusPickedUp:  {AssignmentStatusInTransit, AssignmentStatusCancelled},
	AssignmentStatusInTransit: {AssignmentStatusDelivered, AssignmentStatusCancelled},
	AssignmentStatusDelivered: {},
	AssignmentStatusCancelled: {},
}

// IsValid checks whether the given status matches the canonical enum.
func (s AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentStatusDelivered || s == AssignmentStatusCancelled
}

// CanTransitionTo reports whether target is a legal next status.
func (s AssignmentStatus) CanTransitionTo(target AssignmentStatus) bool {
	for _, candidate := range assignmentTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ActiveAssignmentStatuses is every non-terminal status. Used when a terminal
// transition re-derives rider availability.
func ActiveAssignmentStatuses() []AssignmentStatus {
	return []AssignmentStatus{
		AssignmentStatusAssigned,
		AssignmentStatusPickedUp,
		AssignmentStatusInTransit,
	}
}

// CarryingAssignmentStatuses is the narrower set used by reassignment and
// delivery-proof availability rechecks. The asymmetry against
// ActiveAssignmentStatuses is inherited product behavior; do not unify
// without product sign-off.
func CarryingAssignmentStatuses() []AssignmentStatus {
	return []AssignmentStatus{
		AssignmentStatusAssigned,
		AssignmentStatusPickedUp,
	}
}

// ParseAssignmentStatus converts raw strings into AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
