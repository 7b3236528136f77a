package ordersync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
)

// Syncer pushes assignment milestones onto the order state machine. Pickup
// verification confirms the order; delivery completes it.
type Syncer struct {
	repo orders.Repository
}

// New builds a Syncer over the orders repository.
func New(repo orders.Repository) (*Syncer, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	return &Syncer{repo: repo}, nil
}

// MarkConfirmed moves the order to confirmed inside the caller's transaction.
func (s *Syncer) MarkConfirmed(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, at time.Time) error {
	return s.repo.WithTx(tx).SetStatus(ctx, orderID, enums.OrderStatusConfirmed, at)
}

// MarkDelivered moves the order to delivered inside the caller's transaction.
func (s *Syncer) MarkDelivered(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, at time.Time) error {
	return s.repo.WithTx(tx).SetStatus(ctx, orderID, enums.OrderStatusDelivered, at)
}
