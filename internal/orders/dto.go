package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

// OrderDTO is the transport shape for orders.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"userId"`
	StoreID         uuid.UUID           `json:"storeId"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentMethod   enums.PaymentMethod `json:"paymentMethod"`
	SubtotalCents   int                 `json:"subtotalCents"`
	DeliveryCents   int                 `json:"deliveryCents"`
	DiscountCents   int                 `json:"discountCents"`
	TotalCents      int                 `json:"totalCents"`
	CouponCode      *string             `json:"couponCode,omitempty"`
	DeliveryAddress types.Location      `json:"deliveryAddress"`
	Notes           *string             `json:"notes,omitempty"`
	Items           []OrderItemDTO      `json:"items"`
	ConfirmedAt     *time.Time          `json:"confirmedAt,omitempty"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// OrderItemDTO is a single line on an order.
type OrderItemDTO struct {
	ID             uuid.UUID `json:"id"`
	StoreItemID    uuid.UUID `json:"storeItemId"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int       `json:"unitPriceCents"`
}

// CreateOrderInput holds the data required to place an order.
type CreateOrderInput struct {
	UserID          uuid.UUID
	StoreID         uuid.UUID
	PaymentMethod   enums.PaymentMethod
	DeliveryCents   int
	CouponCode      *string
	DeliveryAddress types.Location
	Notes           *string
	Items           []CreateOrderItemInput
}

// CreateOrderItemInput is one requested line item.
type CreateOrderItemInput struct {
	StoreItemID    uuid.UUID
	Name           string
	Quantity       int
	UnitPriceCents int
}

// UpdateOrderInput patches mutable fields before dispatch.
type UpdateOrderInput struct {
	Notes           *string
	DeliveryAddress *types.Location
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:             item.ID,
			StoreItemID:    item.StoreItemID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		StoreID:         o.StoreID,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		SubtotalCents:   o.SubtotalCents,
		DeliveryCents:   o.DeliveryCents,
		DiscountCents:   o.DiscountCents,
		TotalCents:      o.TotalCents,
		CouponCode:      o.CouponCode,
		DeliveryAddress: o.DeliveryAddress,
		Notes:           o.Notes,
		Items:           items,
		ConfirmedAt:     o.ConfirmedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
