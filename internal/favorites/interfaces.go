package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Repository exposes persistence helpers for user favorites.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, favorite *models.Favorite) error
	Find(ctx context.Context, id uuid.UUID) (*models.Favorite, error)
	// FindTarget looks up the user's favorite pointing at the given store or
	// item, whichever is non-nil.
	FindTarget(ctx context.Context, userID uuid.UUID, storeID, itemID *uuid.UUID) (*models.Favorite, error)
	List(ctx context.Context, params ListFilter) ([]models.Favorite, int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// ListFilter narrows a user's favorite listings.
type ListFilter struct {
	UserID   uuid.UUID
	Kind     *enums.FavoriteKind
	Vertical *enums.StoreVertical
	Page     pagination.Params
}

// StoreLookup resolves favorite targets against the store catalog.
type StoreLookup interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.StoreItem, error)
}
