package favorites

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
)

// FavoriteDTO is the transport shape for a saved favorite.
type FavoriteDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"userId"`
	Kind      enums.FavoriteKind  `json:"kind"`
	Vertical  enums.StoreVertical `json:"vertical"`
	StoreID   *uuid.UUID          `json:"storeId,omitempty"`
	ItemID    *uuid.UUID          `json:"itemId,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

// TargetInput identifies the store or item a favorite points at.
type TargetInput struct {
	Kind    enums.FavoriteKind `json:"kind" validate:"required"`
	StoreID *uuid.UUID         `json:"storeId,omitempty"`
	ItemID  *uuid.UUID         `json:"itemId,omitempty"`
}

// ToggleResult reports whether a toggle added or removed the favorite.
type ToggleResult struct {
	Action   string       `json:"action"`
	Favorite *FavoriteDTO `json:"favorite"`
}

// FromModel maps a database favorite onto its DTO.
func FromModel(f *models.Favorite) *FavoriteDTO {
	if f == nil {
		return nil
	}
	return &FavoriteDTO{
		ID:        f.ID,
		UserID:    f.UserID,
		Kind:      f.Kind,
		Vertical:  f.Vertical,
		StoreID:   f.StoreID,
		ItemID:    f.ItemID,
		CreatedAt: f.CreatedAt,
	}
}

// FromModels maps a slice of favorites.
func FromModels(rows []models.Favorite) []FavoriteDTO {
	out := make([]FavoriteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
