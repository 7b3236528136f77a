package support

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// ListFilter narrows ticket listings.
type ListFilter struct {
	UserID   *uuid.UUID
	Status   *enums.TicketStatus
	Priority *enums.TicketPriority
	Page     pagination.Params
}

// Repository exposes persistence helpers for support tickets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ticket *models.SupportTicket) error
	Find(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	List(ctx context.Context, filter ListFilter) ([]models.SupportTicket, int64, error)
	Update(ctx context.Context, ticket *models.SupportTicket) error
	// NextTicketNumber allocates the next value from the ticket sequence.
	// Call inside a transaction so the row lock serializes allocations.
	NextTicketNumber(ctx context.Context) (int64, error)
}
