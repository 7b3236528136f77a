package enums

import "fmt"

// StoreVertical distinguishes the marketplace verticals a store belongs to.
type StoreVertical string

const (
	StoreVerticalRestaurant StoreVertical = "restaurant"
	StoreVerticalGrocery    StoreVertical = "grocery"
	StoreVerticalPharmacy   StoreVertical = "pharmacy"
	StoreVerticalClothing   StoreVertical = "clothing"
)

var validStoreVerticals = []StoreVertical{
	StoreVerticalRestaurant,
	StoreVerticalGrocery,
	StoreVerticalPharmacy,
	StoreVerticalClothing,
}

// IsValid checks whether the given vertical matches the canonical enum.
func (v StoreVertical) IsValid() bool {
	for _, candidate := range validStoreVerticals {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseStoreVertical converts raw strings into StoreVertical.
func ParseStoreVertical(value string) (StoreVertical, error) {
	for _, candidate := range validStoreVerticals {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store vertical %q", value)
}
