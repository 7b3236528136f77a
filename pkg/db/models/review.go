package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/enums"
)

// Review is a 1..5 star rating left by a user against a store, rider or
// order.
type Review struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	TargetType enums.ReviewTarget `gorm:"column:target_type;type:text;not null;index:idx_reviews_target,priority:1"`
	TargetID   uuid.UUID          `gorm:"column:target_id;type:uuid;not null;index:idx_reviews_target,priority:2"`
	Rating     int                `gorm:"column:rating;not null"`
	Comment    *string            `gorm:"column:comment"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
