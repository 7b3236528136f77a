package riders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
	"github.com/velomart/velomart-backend/pkg/types"
)

// Repository exposes persistence helpers for riders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rider *models.Rider) error
	Find(ctx context.Context, id uuid.UUID) (*models.Rider, error)
	List(ctx context.Context, params ListFilter) ([]models.Rider, int64, error)
	Update(ctx context.Context, rider *models.Rider) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.RiderStatus, available bool) error
	IncrementDeliveries(ctx context.Context, id uuid.UUID) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error
	UpdateLocation(ctx context.Context, id uuid.UUID, loc types.Location) error
}

// ListFilter narrows rider listings.
type ListFilter struct {
	Status      *enums.RiderStatus
	VehicleType *enums.VehicleType
	Available   *bool
	Page        pagination.Params
}
