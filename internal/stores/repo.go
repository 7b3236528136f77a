package stores

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a stores repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *repositoryImpl) Find(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListFilter) ([]models.Store, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Store{})
	if params.Vertical != nil {
		query = query.Where("vertical = ?", *params.Vertical)
	}
	if params.Active != nil {
		query = query.Where("is_active = ?", *params.Active)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.Store
	err := query.Order("rating DESC, created_at DESC").
		Limit(page.Limit).
		Offset(params.Page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func (r *repositoryImpl) Update(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *repositoryImpl) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "rating_count": count}).Error
}

func (r *repositoryImpl) CreateItem(ctx context.Context, item *models.StoreItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repositoryImpl) FindItem(ctx context.Context, id uuid.UUID) (*models.StoreItem, error) {
	var item models.StoreItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) ListItems(ctx context.Context, params ItemFilter) ([]models.StoreItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StoreItem{})
	if params.StoreID != nil {
		query = query.Where("store_id = ?", *params.StoreID)
	}
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	if params.InStock != nil {
		query = query.Where("in_stock = ?", *params.InStock)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.StoreItem
	err := query.Order("name ASC").
		Limit(page.Limit).
		Offset(params.Page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func (r *repositoryImpl) UpdateItem(ctx context.Context, item *models.StoreItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repositoryImpl) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.StoreItem{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
