package riders

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// RiderDTO is the transport shape for rider profiles.
type RiderDTO struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Phone           string            `json:"phone"`
	Email           *string           `json:"email,omitempty"`
	VehicleType     enums.VehicleType `json:"vehicleType"`
	VehicleNumber   *string           `json:"vehicleNumber,omitempty"`
	Status          enums.RiderStatus `json:"status"`
	IsAvailable     bool              `json:"isAvailable"`
	CurrentLocation *types.Location   `json:"currentLocation,omitempty"`
	Rating          float64           `json:"rating"`
	TotalDeliveries int               `json:"totalDeliveries"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// PublicRiderDTO is the reduced shape exposed on tracking endpoints.
type PublicRiderDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	VehicleType enums.VehicleType `json:"vehicleType"`
	Rating      float64           `json:"rating"`
}

// CreateRiderInput holds the data required to register a rider.
type CreateRiderInput struct {
	Name          string
	Phone         string
	Email         *string
	Password      string
	VehicleType   enums.VehicleType
	VehicleNumber *string
}

// UpdateRiderInput patches mutable profile fields.
type UpdateRiderInput struct {
	Name          *string
	Email         *string
	VehicleType   *enums.VehicleType
	VehicleNumber *string
}

func FromModel(r *models.Rider) *RiderDTO {
	if r == nil {
		return nil
	}
	return &RiderDTO{
		ID:              r.ID,
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		VehicleType:     r.VehicleType,
		VehicleNumber:   r.VehicleNumber,
		Status:          r.Status,
		IsAvailable:     r.IsAvailable,
		CurrentLocation: r.CurrentLocation,
		Rating:          r.Rating,
		TotalDeliveries: r.TotalDeliveries,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func PublicFromModel(r *models.Rider) *PublicRiderDTO {
	if r == nil {
		return nil
	}
	return &PublicRiderDTO{
		ID:          r.ID,
		Name:        r.Name,
		Phone:       r.Phone,
		VehicleType: r.VehicleType,
		Rating:      r.Rating,
	}
}

func FromModels(rows []models.Rider) []RiderDTO {
	out := make([]RiderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
