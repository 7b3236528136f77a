package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reviews repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repositoryImpl) Find(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repositoryImpl) ListByTarget(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID, page pagination.Params) ([]models.Review, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := page.Normalize()
	var rows []models.Review
	err := query.Order("created_at DESC").
		Limit(normalized.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *repositoryImpl) AggregateForTarget(ctx context.Context, targetType enums.ReviewTarget, targetID uuid.UUID) (float64, int, error) {
	type aggregate struct {
		Avg   float64
		Count int64
	}
	var agg aggregate
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, err
	}
	return agg.Avg, int(agg.Count), nil
}
