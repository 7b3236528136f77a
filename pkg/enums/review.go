package enums

import "fmt"

// ReviewTarget identifies what kind of entity a review is attached to.
type ReviewTarget string

const (
	ReviewTargetStore ReviewTarget = "store"
	ReviewTargetRider ReviewTarget = "rider"
	ReviewTargetOrder ReviewTarget = "order"
)

var validReviewTargets = []ReviewTarget{
	ReviewTargetStore,
	ReviewTargetRider,
	ReviewTargetOrder,
}

// IsValid checks whether the given target matches the canonical enum.
func (r ReviewTarget) IsValid() bool {
	for _, candidate := range validReviewTargets {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReviewTarget converts raw strings into ReviewTarget.
func ParseReviewTarget(value string) (ReviewTarget, error) {
	for _, candidate := range validReviewTargets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review target %q", value)
}
