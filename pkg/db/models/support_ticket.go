package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// SupportTicket is a customer support case. Replies are stored inline as a
// jsonb array of {author, message, at} objects.
type SupportTicket struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TicketNumber string               `gorm:"column:ticket_number;type:text;not null;uniqueIndex"`
	UserID       uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Subject      string               `gorm:"column:subject;type:text;not null"`
	Message      string               `gorm:"column:message;type:text;not null"`
	Status       enums.TicketStatus   `gorm:"column:status;type:text;not null;default:'open'"`
	Priority     enums.TicketPriority `gorm:"column:priority;type:text;not null;default:'medium'"`
	Replies      types.TicketReplies  `gorm:"column:replies;type:jsonb;serializer:json"`
	ResolvedAt   *time.Time           `gorm:"column:resolved_at"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TicketSequence is a single-row counter backing ticket number generation.
type TicketSequence struct {
	ID        int       `gorm:"column:id;primaryKey"`
	NextValue int64     `gorm:"column:next_value;not null;default:1"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
