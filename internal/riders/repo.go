package riders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a riders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, rider *models.Rider) error {
	return r.db.WithContext(ctx).Create(rider).Error
}

func (r *repositoryImpl) Find(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	var rider models.Rider
	err := r.db.WithContext(ctx).First(&rider, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListFilter) ([]models.Rider, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Rider{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.VehicleType != nil {
		query = query.Where("vehicle_type = ?", *params.VehicleType)
	}
	if params.Available != nil {
		query = query.Where("is_available = ?", *params.Available)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.Rider
	err := query.Order("created_at DESC").
		Limit(page.Limit).
		Offset(params.Page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func (r *repositoryImpl) Update(ctx context.Context, rider *models.Rider) error {
	return r.db.WithContext(ctx).Save(rider).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Rider{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *repositoryImpl) SetStatus(ctx context.Context, id uuid.UUID, status enums.RiderStatus, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"is_available": available,
		}).Error
}

func (r *repositoryImpl) IncrementDeliveries(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		UpdateColumn("total_deliveries", gorm.Expr("total_deliveries + 1")).Error
}

func (r *repositoryImpl) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "rating_count": count}).Error
}

func (r *repositoryImpl) UpdateLocation(ctx context.Context, id uuid.UUID, loc types.Location) error {
	// Updating through the model field keeps the json serializer in play.
	return r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("id = ?", id).
		Updates(&models.Rider{CurrentLocation: &loc}).Error
}
