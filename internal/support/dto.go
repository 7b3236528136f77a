package support

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// TicketDTO is the API representation of a support ticket.
type TicketDTO struct {
	ID           uuid.UUID            `json:"id"`
	TicketNumber string               `json:"ticketNumber"`
	UserID       uuid.UUID            `json:"userId"`
	Subject      string               `json:"subject"`
	Message      string               `json:"message"`
	Status       enums.TicketStatus   `json:"status"`
	Priority     enums.TicketPriority `json:"priority"`
	Replies      types.TicketReplies  `json:"replies"`
	ResolvedAt   *time.Time           `json:"resolvedAt,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// CreateTicketInput is the payload for opening a ticket.
type CreateTicketInput struct {
	UserID   uuid.UUID            `json:"userId" validate:"required"`
	Subject  string               `json:"subject" validate:"required,max=200"`
	Message  string               `json:"message" validate:"required,max=5000"`
	Priority enums.TicketPriority `json:"priority,omitempty"`
}

// ReplyInput appends one message to a ticket thread.
type ReplyInput struct {
	Author  string `json:"author" validate:"required,max=100"`
	Message string `json:"message" validate:"required,max=5000"`
}

// UpdateTicketInput patches ticket status or priority.
type UpdateTicketInput struct {
	Status   *enums.TicketStatus   `json:"status,omitempty"`
	Priority *enums.TicketPriority `json:"priority,omitempty"`
}

// FromModel converts a database ticket into its DTO.
func FromModel(t *models.SupportTicket) *TicketDTO {
	replies := t.Replies
	if replies == nil {
		replies = types.TicketReplies{}
	}
	return &TicketDTO{
		ID:           t.ID,
		TicketNumber: t.TicketNumber,
		UserID:       t.UserID,
		Subject:      t.Subject,
		Message:      t.Message,
		Status:       t.Status,
		Priority:     t.Priority,
		Replies:      replies,
		ResolvedAt:   t.ResolvedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// FromModels converts a slice of database tickets into DTOs.
func FromModels(rows []models.SupportTicket) []TicketDTO {
	out := make([]TicketDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
