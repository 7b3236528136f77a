package support

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
)

const sequenceRowID = 1

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a support repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *repositoryImpl) Find(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repositoryImpl) List(ctx context.Context, filter ListFilter) ([]models.SupportTicket, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SupportTicket{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := filter.Page.Normalize()
	var rows []models.SupportTicket
	err := query.Order("created_at DESC").
		Limit(normalized.Limit).
		Offset(filter.Page.Offset()).
		Find(&rows).Error
	return rows, total, err
}

func (r *repositoryImpl) Update(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *repositoryImpl) NextTicketNumber(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TicketSequence{}).
		Where("id = ?", sequenceRowID).
		Update("next_value", gorm.Expr("next_value + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		seed := models.TicketSequence{ID: sequenceRowID, NextValue: 2}
		if err := r.db.WithContext(ctx).Create(&seed).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var seq models.TicketSequence
	if err := r.db.WithContext(ctx).First(&seq, "id = ?", sequenceRowID).Error; err != nil {
		return 0, err
	}
	return seq.NextValue - 1, nil
}
