package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velomart/velomart-backend/api/responses"
	"github.com/velomart/velomart-backend/api/validators"
	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/types"
)

type createOrderItemRequest struct {
	StoreItemID    string `json:"storeItemId" validate:"required,uuid"`
	Name           string `json:"name" validate:"required,max=200"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	UnitPriceCents int    `json:"unitPriceCents" validate:"min=0"`
}

type createOrderRequest struct {
	UserID          string                   `json:"userId" validate:"required,uuid"`
	StoreID         string                   `json:"storeId" validate:"required,uuid"`
	PaymentMethod   string                   `json:"paymentMethod" validate:"required"`
	DeliveryCents   int                      `json:"deliveryCents" validate:"min=0"`
	CouponCode      *string                  `json:"couponCode,omitempty"`
	DeliveryAddress locationRequest          `json:"deliveryAddress" validate:"required"`
	Notes           *string                  `json:"notes,omitempty"`
	Items           []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type locationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Address   string  `json:"address,omitempty" validate:"max=300"`
}

type updateOrderRequest struct {
	Notes           *string          `json:"notes,omitempty"`
	DeliveryAddress *locationRequest `json:"deliveryAddress,omitempty"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.ParsePathUUID(req.UserID, "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		storeID, err := validators.ParsePathUUID(req.StoreID, "store id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		items := make([]orders.CreateOrderItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			itemID, err := validators.ParsePathUUID(item.StoreItemID, "store item id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items = append(items, orders.CreateOrderItemInput{
				StoreItemID:    itemID,
				Name:           item.Name,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
			})
		}

		dto, err := svc.Create(r.Context(), orders.CreateOrderInput{
			UserID:        userID,
			StoreID:       storeID,
			PaymentMethod: payment,
			DeliveryCents: req.DeliveryCents,
			CouponCode:    req.CouponCode,
			DeliveryAddress: types.Location{
				Latitude:  req.DeliveryAddress.Latitude,
				Longitude: req.DeliveryAddress.Longitude,
				Address:   req.DeliveryAddress.Address,
			},
			Notes: req.Notes,
			Items: items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := orders.ListFilter{Page: page}
		filter.UserID, err = validators.ParseQueryUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.StoreID, err = validators.ParseQueryUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = &status
		}

		rows, meta, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": rows, "pagination": meta})
	}
}

func UpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateOrderInput{Notes: req.Notes}
		if req.DeliveryAddress != nil {
			input.DeliveryAddress = &types.Location{
				Latitude:  req.DeliveryAddress.Latitude,
				Longitude: req.DeliveryAddress.Longitude,
				Address:   req.DeliveryAddress.Address,
			}
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Cancel(r.Context(), id, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
