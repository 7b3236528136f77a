package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for reviews.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) error
	Find(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByTarget(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID, page pagination.Params) ([]models.Review, int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// AggregateForTarget returns the average rating and review count.
	AggregateForTarget(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID) (float64, int, error)
}

// RatingUpdater pushes a recomputed aggregate onto the reviewed entity.
type RatingUpdater interface {
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error
}
