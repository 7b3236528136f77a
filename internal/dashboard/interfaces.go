package dashboard

import (
	"context"
	"time"

	"github.com/velomart/velomart-backend/pkg/enums"
)

// Repository exposes the aggregate counters behind the admin summary.
type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountRiders(ctx context.Context) (int64, error)
	// CountActiveRiders counts riders currently on shift (available or busy).
	CountActiveRiders(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersSince(ctx context.Context, since time.Time) (int64, error)
	CountStoresByVertical(ctx context.Context) (map[enums.StoreVertical]int64, error)
	// DeliveredRevenueCents sums total_cents over delivered orders.
	DeliveredRevenueCents(ctx context.Context) (int64, error)
}
