package assignments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an assignments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, entry *models.AssignedOrder) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) Find(ctx context.Context, id uuid.UUID) (*models.AssignedOrder, error) {
	var entry models.AssignedOrder
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repositoryImpl) List(ctx context.Context, params ListFilter) ([]models.AssignedOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AssignedOrder{})
	if params.RiderID != nil {
		query = query.Where("rider_id = ?", *params.RiderID)
	}
	if params.OrderID != nil {
		query = query.Where("order_id = ?", *params.OrderID)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("assigned_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("assigned_at <= ?", *params.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Page.Normalize()
	var rows []models.AssignedOrder
	err := query.Order("assigned_at DESC").
		Limit(page.Limit).
		Offset(params.Page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func (r *repositoryImpl) Update(ctx context.Context, entry *models.AssignedOrder) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.AssignedOrder{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *repositoryImpl) ExistingPairCount(ctx context.Context, pairs []OrderRiderPair) (int64, error) {
	if len(pairs) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.AssignedOrder{})
	clause := r.db.Session(&gorm.Session{NewDB: true})
	for _, pair := range pairs {
		clause = clause.Or(r.db.Session(&gorm.Session{NewDB: true}).
			Where("order_id = ? AND rider_id = ?", pair.OrderID, pair.RiderID))
	}
	var count int64
	err := query.Where(clause).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountForRider(ctx context.Context, riderID uuid.UUID, statuses []enums.AssignmentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignedOrder{}).
		Where("rider_id = ? AND status IN ?", riderID, statuses).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountByStatus(ctx context.Context, riderID *uuid.UUID) (map[enums.AssignmentStatus]int64, error) {
	type statusCount struct {
		Status enums.AssignmentStatus
		Count  int64
	}
	query := r.db.WithContext(ctx).
		Model(&models.AssignedOrder{}).
		Select("status, count(*) as count").
		Group("status")
	if riderID != nil {
		query = query.Where("rider_id = ?", *riderID)
	}

	var rows []statusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enums.AssignmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
