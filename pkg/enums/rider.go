package enums

import "fmt"

// RiderStatus maps to the rider_status enum in Postgres.
type RiderStatus string

const (
	RiderStatusAvailable RiderStatus = "available"
	RiderStatusBusy      RiderStatus = "busy"
	RiderStatusOffline   RiderStatus = "offline"
)

var validRiderStatuses = []RiderStatus{
	RiderStatusAvailable,
	RiderStatusBusy,
	RiderStatusOffline,
}

// IsValid checks whether the given status matches the canonical enum.
func (s RiderStatus) IsValid() bool {
	for _, candidate := range validRiderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRiderStatus converts raw strings into RiderStatus.
func ParseRiderStatus(value string) (RiderStatus, error) {
	for _, candidate := range validRiderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rider status %q", value)
}

// VehicleType maps to the vehicle_type enum in Postgres.
type VehicleType string

const (
	VehicleTypeBike    VehicleType = "bike"
	VehicleTypeScooter VehicleType = "scooter"
	VehicleTypeBicycle VehicleType = "bicycle"
	VehicleTypeCar     VehicleType = "car"
)

var validVehicleTypes = []VehicleType{
	VehicleTypeBike,
	VehicleTypeScooter,
	VehicleTypeBicycle,
	VehicleTypeCar,
}

// IsValid checks whether the given type matches the canonical enum.
func (v VehicleType) IsValid() bool {
	for _, candidate := range validVehicleTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVehicleType converts raw strings into VehicleType.
func ParseVehicleType(value string) (VehicleType, error) {
	for _, candidate := range validVehicleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle type %q", value)
}
