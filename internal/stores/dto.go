package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// StoreDTO is the transport shape for merchant locations.
type StoreDTO struct {
	ID          uuid.UUID           `json:"id"`
	Vertical    enums.StoreVertical `json:"vertical"`
	Name        string              `json:"name"`
	Description *string             `json:"description,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Address     types.Location      `json:"address"`
	OpenHours   *string             `json:"openHours,omitempty"`
	Rating      float64             `json:"rating"`
	RatingCount int                 `json:"ratingCount"`
	IsActive    bool                `json:"isActive"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// StoreItemDTO is the transport shape for sellable items.
type StoreItemDTO struct {
	ID         uuid.UUID      `json:"id"`
	StoreID    uuid.UUID      `json:"storeId"`
	Name       string         `json:"name"`
	Category   *string        `json:"category,omitempty"`
	PriceCents int            `json:"priceCents"`
	InStock    bool           `json:"inStock"`
	Attributes *types.JSONMap `json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// CreateStoreInput is the admin creation surface.
type CreateStoreInput struct {
	Vertical    enums.StoreVertical `json:"vertical" validate:"required"`
	Name        string              `json:"name" validate:"required"`
	Description *string             `json:"description,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Address     types.Location      `json:"address" validate:"required"`
	OpenHours   *string             `json:"openHours,omitempty"`
}

// UpdateStoreInput is the admin patch surface.
type UpdateStoreInput struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Address     *types.Location `json:"address,omitempty"`
	OpenHours   *string         `json:"openHours,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// CreateItemInput adds an item to a store's catalog.
type CreateItemInput struct {
	StoreID    uuid.UUID      `json:"storeId" validate:"required"`
	Name       string         `json:"name" validate:"required"`
	Category   *string        `json:"category,omitempty"`
	PriceCents int            `json:"priceCents" validate:"gte=0"`
	InStock    *bool          `json:"inStock,omitempty"`
	Attributes *types.JSONMap `json:"attributes,omitempty"`
}

// UpdateItemInput patches a catalog item.
type UpdateItemInput struct {
	Name       *string        `json:"name,omitempty"`
	Category   *string        `json:"category,omitempty"`
	PriceCents *int           `json:"priceCents,omitempty" validate:"omitempty,gte=0"`
	InStock    *bool          `json:"inStock,omitempty"`
	Attributes *types.JSONMap `json:"attributes,omitempty"`
}

// FromModel maps a database store onto its DTO.
func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:          s.ID,
		Vertical:    s.Vertical,
		Name:        s.Name,
		Description: s.Description,
		Phone:       s.Phone,
		Address:     s.Address,
		OpenHours:   s.OpenHours,
		Rating:      s.Rating,
		RatingCount: s.RatingCount,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromModels maps a slice of stores.
func FromModels(rows []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// ItemFromModel maps a database item onto its DTO.
func ItemFromModel(i *models.StoreItem) *StoreItemDTO {
	if i == nil {
		return nil
	}
	return &StoreItemDTO{
		ID:         i.ID,
		StoreID:    i.StoreID,
		Name:       i.Name,
		Category:   i.Category,
		PriceCents: i.PriceCents,
		InStock:    i.InStock,
		Attributes: i.Attributes,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// ItemsFromModels maps a slice of items.
func ItemsFromModels(rows []models.StoreItem) []StoreItemDTO {
	out := make([]StoreItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ItemFromModel(&rows[i]))
	}
	return out
}
