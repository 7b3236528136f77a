package dashboard

import (
	"context"
	"time"

	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
)

// Summary is the admin dashboard aggregate.
type Summary struct {
	TotalUsers        int64                         `json:"totalUsers"`
	TotalStores       int64                         `json:"totalStores"`
	StoreBreakdown    map[enums.StoreVertical]int64 `json:"storeBreakdown"`
	TotalOrders       int64                         `json:"totalOrders"`
	TodayOrders       int64                         `json:"todayOrders"`
	TotalRevenueCents int64                         `json:"totalRevenueCents"`
	TotalRiders       int64                         `json:"totalRiders"`
	ActiveRiders      int64                         `json:"activeRiders"`
}

// Service defines the admin reporting operations.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo Repository
	now  func() time.Time
	logg *logger.Logger
}

// NewService wires dashboard dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dashboard repository required")
	}
	return &service{repo: repo, now: time.Now, logg: logg}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	riders, err := s.repo.CountRiders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count riders")
	}
	activeRiders, err := s.repo.CountActiveRiders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active riders")
	}
	orders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayOrders, err := s.repo.CountOrdersSince(ctx, midnight)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today orders")
	}

	breakdown, err := s.repo.CountStoresByVertical(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stores")
	}
	var stores int64
	for _, n := range breakdown {
		stores += n
	}

	revenue, err := s.repo.DeliveredRevenueCents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}

	return &Summary{
		TotalUsers:        users,
		TotalStores:       stores,
		StoreBreakdown:    breakdown,
		TotalOrders:       orders,
		TodayOrders:       todayOrders,
		TotalRevenueCents: revenue,
		TotalRiders:       riders,
		ActiveRiders:      activeRiders,
	}, nil
}
