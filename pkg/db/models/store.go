package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// Store represents a merchant location in one of the delivery verticals.
type Store struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Vertical    enums.StoreVertical `gorm:"column:vertical;type:text;not null;index"`
	Name        string              `gorm:"column:name;not null"`
	Description *string             `gorm:"column:description"`
	Phone       *string             `gorm:"column:phone"`
	Address     types.Location      `gorm:"column:address;type:jsonb;serializer:json;not null"`
	OpenHours   *string             `gorm:"column:open_hours"`
	Rating      float64             `gorm:"column:rating;not null;default:0"`
	RatingCount int                 `gorm:"column:rating_count;not null;default:0"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// StoreItem is a sellable item listed by a store.
type StoreItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID      `gorm:"column:store_id;type:uuid;not null;index"`
	Name       string         `gorm:"column:name;not null"`
	Category   *string        `gorm:"column:category"`
	PriceCents int            `gorm:"column:price_cents;not null"`
	InStock    bool           `gorm:"column:in_stock;not null"`
	Attributes *types.JSONMap `gorm:"column:attributes;type:jsonb;serializer:json"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
