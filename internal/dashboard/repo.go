package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
)

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a dashboard repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountRiders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rider{}).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountActiveRiders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rider{}).
		Where("status IN ?", []enums.RiderStatus{enums.RiderStatusAvailable, enums.RiderStatusBusy}).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CountStoresByVertical(ctx context.Context) (map[enums.StoreVertical]int64, error) {
	var rows []struct {
		Vertical enums.StoreVertical
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select("vertical, COUNT(*) AS total").
		Group("vertical").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make(map[enums.StoreVertical]int64, len(rows))
	for _, row := range rows {
		breakdown[row.Vertical] = row.Total
	}
	return breakdown, nil
}

func (r *repositoryImpl) DeliveredRevenueCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", enums.OrderStatusDelivered).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&total).Error
	return total, err
}
