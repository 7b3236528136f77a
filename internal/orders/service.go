package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/outbox"
	"github.com/velomart/velomart-backend/pkg/outbox/payloads"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines customer order operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter) ([]OrderDTO, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*OrderDTO, error)
}

// cancellableStatuses are the order states a customer can still back out of.
var cancellableStatuses = map[enums.OrderStatus]struct{}{
	enums.OrderStatusPending:   {},
	enums.OrderStatusConfirmed: {},
	enums.OrderStatusPreparing: {},
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	coupons CouponApplier
	logg    *logger.Logger
}

// NewService wires order dependencies. The coupon applier may be nil.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, coupons CouponApplier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if outboxSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, coupons: coupons, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.UserID == uuid.Nil || input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId and storeId are required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid payment method %q", input.PaymentMethod)
	}

	subtotal := 0
	items := make([]dbmodels.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		subtotal += item.Quantity * item.UnitPriceCents
		items = append(items, dbmodels.OrderItem{
			StoreItemID:    item.StoreItemID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	order := &dbmodels.Order{
		UserID:          input.UserID,
		StoreID:         input.StoreID,
		Status:          enums.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		SubtotalCents:   subtotal,
		DeliveryCents:   input.DeliveryCents,
		CouponCode:      input.CouponCode,
		DeliveryAddress: input.DeliveryAddress,
		Notes:           input.Notes,
		Items:           items,
	}
	order.TotalCents = subtotal + input.DeliveryCents

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if input.CouponCode != nil && s.coupons != nil {
			discount, err := s.coupons.Apply(ctx, *input.CouponCode, input.UserID, order.ID, subtotal)
			if err != nil {
				return err
			}
			order.DiscountCents = discount
			order.TotalCents = subtotal + input.DeliveryCents - discount
			if order.TotalCents < 0 {
				order.TotalCents = 0
			}
			if err := repo.Update(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply order discount")
			}
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: payloads.OrderPlacedEvent{
				OrderID:    order.ID,
				UserID:     order.UserID,
				StoreID:    order.StoreID,
				TotalCents: order.TotalCents,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order placed")
	}
	return FromModel(order), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]OrderDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusDelivered || order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "order in %s state cannot be updated", order.Status)
	}

	if input.Notes != nil {
		order.Notes = input.Notes
	}
	if input.DeliveryAddress != nil {
		order.DeliveryAddress = *input.DeliveryAddress
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return FromModel(order), nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := cancellableStatuses[order.Status]; !ok {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "order in %s state cannot be cancelled", order.Status)
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SetStatus(ctx, id, enums.OrderStatusCancelled, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: payloads.OrderCancelledEvent{
				OrderID:     order.ID,
				UserID:      order.UserID,
				CancelledAt: now,
				Reason:      reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	order.Status = enums.OrderStatusCancelled
	order.CancelledAt = &now
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order cancelled")
	}
	return FromModel(order), nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*dbmodels.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
