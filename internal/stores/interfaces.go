package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for stores and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, store *models.Store) error
	Find(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context, params ListFilter) ([]models.Store, int64, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error

	CreateItem(ctx context.Context, item *models.StoreItem) error
	FindItem(ctx context.Context, id uuid.UUID) (*models.StoreItem, error)
	ListItems(ctx context.Context, params ItemFilter) ([]models.StoreItem, int64, error)
	UpdateItem(ctx context.Context, item *models.StoreItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) (bool, error)
}

// ListFilter narrows store listings.
type ListFilter struct {
	Vertical *enums.StoreVertical
	Active   *bool
	Search   string
	Page     pagination.Params
}

// ItemFilter narrows store item listings.
type ItemFilter struct {
	StoreID  *uuid.UUID
	Category *string
	InStock  *bool
	Search   string
	Page     pagination.Params
}
