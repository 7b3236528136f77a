package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// Rider represents a delivery partner profile.
type Rider struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string            `gorm:"column:name;not null"`
	Phone           string            `gorm:"column:phone;not null;uniqueIndex"`
	Email           *string           `gorm:"column:email"`
	PasswordHash    string            `gorm:"column:password_hash;not null"`
	VehicleType     enums.VehicleType `gorm:"column:vehicle_type;type:text;not null"`
	VehicleNumber   *string           `gorm:"column:vehicle_number"`
	Status          enums.RiderStatus `gorm:"column:status;type:text;not null;default:'offline'"`
	IsAvailable     bool              `gorm:"column:is_available;not null;default:false"`
	CurrentLocation *types.Location   `gorm:"column:current_location;type:jsonb;serializer:json"`
	Rating          float64           `gorm:"column:rating;not null;default:0"`
	RatingCount     int               `gorm:"column:rating_count;not null;default:0"`
	TotalDeliveries int               `gorm:"column:total_deliveries;not null;default:0"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
