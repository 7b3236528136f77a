package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
)

// NotificationDTO is the API representation of a feed entry.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"userId"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Link      *string                `json:"link,omitempty"`
	ReadAt    *time.Time             `json:"readAt,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// FeedPage is one cursor page of a user's notification feed.
type FeedPage struct {
	Items       []NotificationDTO `json:"items"`
	NextCursor  string            `json:"nextCursor,omitempty"`
	UnreadCount int64             `json:"unreadCount"`
}

// FromModel converts a database notification into its DTO.
func FromModel(n *models.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// FromModels converts a slice of database notifications into DTOs.
func FromModels(rows []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
