package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/enums"
)

// Favorite marks a store or a catalog item a user wants quick access to.
// Exactly one of StoreID and ItemID is set depending on Kind.
type Favorite struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Kind      enums.FavoriteKind  `gorm:"column:kind;type:text;not null"`
	Vertical  enums.StoreVertical `gorm:"column:vertical;type:text;not null"`
	StoreID   *uuid.UUID          `gorm:"column:store_id;type:uuid;index"`
	ItemID    *uuid.UUID          `gorm:"column:item_id;type:uuid;index"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
