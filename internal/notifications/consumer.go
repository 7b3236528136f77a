package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/outbox/payloads"
	"github.com/velomart/velomart-backend/pkg/outbox/registry"
)

type orderLookup interface {
	Find(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type ticketLookup interface {
	Find(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
}

// Consumer turns published domain events into notification feed rows.
type Consumer struct {
	svc      Service
	orders   orderLookup
	tickets  ticketLookup
	decoders *registry.DecoderRegistry
	logg     *logger.Logger
}

// NewConsumer wires the consumer and registers payload decoders for every
// event type it handles.
func NewConsumer(svc Service, orders orderLookup, tickets ticketLookup, logg *logger.Logger) (*Consumer, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	c := &Consumer{
		svc:      svc,
		orders:   orders,
		tickets:  tickets,
		decoders: registry.NewDecoderRegistry(),
		logg:     logg,
	}

	c.decoders.Register(enums.EventAssignmentCreated, 1, decodeInto[payloads.AssignmentCreatedEvent])
	c.decoders.Register(enums.EventAssignmentReassigned, 1, decodeInto[payloads.AssignmentReassignedEvent])
	c.decoders.Register(enums.EventPickupVerified, 1, decodeInto[payloads.PickupVerifiedEvent])
	c.decoders.Register(enums.EventOrderDelivered, 1, decodeInto[payloads.OrderDeliveredEvent])
	c.decoders.Register(enums.EventOrderPlaced, 1, decodeInto[payloads.OrderPlacedEvent])
	c.decoders.Register(enums.EventOrderCancelled, 1, decodeInto[payloads.OrderCancelledEvent])
	c.decoders.Register(enums.EventTicketCreated, 1, decodeInto[payloads.TicketCreatedEvent])
	c.decoders.Register(enums.EventTicketUpdated, 1, decodeInto[payloads.TicketUpdatedEvent])

	return c, nil
}

func decodeInto[T any](payload json.RawMessage) (interface{}, error) {
	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return event, nil
}

// Handle consumes one event. Event types without a registered decoder are
// skipped so new producers can roll out ahead of the worker.
func (c *Consumer) Handle(ctx context.Context, eventType enums.OutboxEventType, version int, payload json.RawMessage) error {
	decoded, err := c.decoders.Decode(eventType, version, payload)
	if err != nil {
		if c.logg != nil {
			lctx := c.logg.WithField(ctx, "event_type", string(eventType))
			c.logg.Warn(lctx, "skipping event without decoder")
		}
		return nil
	}

	switch event := decoded.(type) {
	case payloads.AssignmentCreatedEvent:
		return c.notify(ctx, event.UserID, enums.NotificationTypeRiderAssigned,
			"Rider assigned",
			"A rider has been assigned to your order and is heading to the store.",
			orderLink(event.OrderID))
	case payloads.AssignmentReassignedEvent:
		userID, err := c.userForOrder(ctx, event.OrderID)
		if err != nil {
			return err
		}
		return c.notify(ctx, userID, enums.NotificationTypeRiderChanged,
			"Rider changed",
			"Your delivery was handed to a different rider.",
			orderLink(event.OrderID))
	case payloads.PickupVerifiedEvent:
		userID, err := c.userForOrder(ctx, event.OrderID)
		if err != nil {
			return err
		}
		return c.notify(ctx, userID, enums.NotificationTypePickupVerified,
			"Order picked up",
			"Your order was picked up from the store and is on its way.",
			orderLink(event.OrderID))
	case payloads.OrderDeliveredEvent:
		return c.notify(ctx, event.UserID, enums.NotificationTypeOrderDelivered,
			"Order delivered",
			"Your order has been delivered. Enjoy!",
			orderLink(event.OrderID))
	case payloads.OrderPlacedEvent:
		return c.notify(ctx, event.UserID, enums.NotificationTypeOrderPlaced,
			"Order placed",
			"We received your order and sent it to the store.",
			orderLink(event.OrderID))
	case payloads.OrderCancelledEvent:
		return c.notify(ctx, event.UserID, enums.NotificationTypeOrderCancelled,
			"Order cancelled",
			"Your order was cancelled. Any payment will be refunded.",
			orderLink(event.OrderID))
	case payloads.TicketCreatedEvent:
		return c.notify(ctx, event.UserID, enums.NotificationTypeSupportUpdate,
			"Support ticket opened",
			fmt.Sprintf("We opened ticket %s and will get back to you shortly.", event.TicketNumber),
			nil)
	case payloads.TicketUpdatedEvent:
		userID, err := c.userForTicket(ctx, event.TicketID)
		if err != nil {
			return err
		}
		return c.notify(ctx, userID, enums.NotificationTypeSupportUpdate,
			"Support ticket updated",
			fmt.Sprintf("Ticket %s is now %s.", event.TicketNumber, event.Status),
			nil)
	default:
		return nil
	}
}

func (c *Consumer) notify(ctx context.Context, userID uuid.UUID, typ enums.NotificationType, title, message string, link *string) error {
	if userID == uuid.Nil {
		return nil
	}
	_, err := c.svc.Notify(ctx, userID, typ, title, message, link)
	return err
}

func (c *Consumer) userForOrder(ctx context.Context, orderID uuid.UUID) (uuid.UUID, error) {
	if c.orders == nil {
		return uuid.Nil, nil
	}
	order, err := c.orders.Find(ctx, orderID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order for notification")
	}
	if order == nil {
		return uuid.Nil, nil
	}
	return order.UserID, nil
}

func (c *Consumer) userForTicket(ctx context.Context, ticketID uuid.UUID) (uuid.UUID, error) {
	if c.tickets == nil {
		return uuid.Nil, nil
	}
	ticket, err := c.tickets.Find(ctx, ticketID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve ticket for notification")
	}
	if ticket == nil {
		return uuid.Nil, nil
	}
	return ticket.UserID, nil
}

func orderLink(orderID uuid.UUID) *string {
	link := "/orders/" + orderID.String()
	return &link
}
