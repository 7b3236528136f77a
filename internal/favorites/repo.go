package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a favorites repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *repositoryImpl) Find(ctx context.Context, id uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).First(&favorite, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *repositoryImpl) FindTarget(ctx context.Context, userID uuid.UUID, storeID, itemID *uuid.UUID) (*models.Favorite, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case storeID != nil:
		query = query.Where("store_id = ?", *storeID)
	case itemID != nil:
		query = query.Where("item_id = ?", *itemID)
	default:
		return nil, nil
	}

	var favorite models.Favorite
	err := query.First(&favorite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListFilter) ([]models.Favorite, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", params.UserID)
	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}
	if params.Vertical != nil {
		query = query.Where("vertical = ?", *params.Vertical)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.Favorite
	err := query.Order("created_at DESC").
		Limit(page.Limit).
		Offset(params.Page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func (r *repositoryImpl) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.Favorite{}, "id = ? AND user_id = ?", id, userID)
	return result.RowsAffected > 0, result.Error
}
