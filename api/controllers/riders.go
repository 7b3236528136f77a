package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velomart/velomart-backend/api/responses"
	"github.com/velomart/velomart-backend/api/validators"
	"github.com/velomart/velomart-backend/internal/riders"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/types"
)

type createRiderRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	Phone         string  `json:"phone" validate:"required,max=20"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Password      string  `json:"password" validate:"required,min=8"`
	VehicleType   string  `json:"vehicleType" validate:"required"`
	VehicleNumber *string `json:"vehicleNumber,omitempty"`
}

type updateRiderRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	VehicleType   *string `json:"vehicleType,omitempty"`
	VehicleNumber *string `json:"vehicleNumber,omitempty"`
}

type riderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type riderLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
	Address   string  `json:"address,omitempty" validate:"max=300"`
}

func CreateRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}
		var req createRiderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := enums.ParseVehicleType(req.VehicleType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle type"))
			return
		}

		dto, err := svc.Create(r.Context(), riders.CreateRiderInput{
			Name:          req.Name,
			Phone:         req.Phone,
			Email:         req.Email,
			Password:      req.Password,
			VehicleType:   vehicle,
			VehicleNumber: req.VehicleNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func GetRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "rider id")
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

func ListRiders(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := riders.ListFilter{Page: page}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseRiderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := r.URL.Query().Get("vehicleType"); raw != "" {
			vehicle, err := enums.ParseVehicleType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle type filter"))
				return
			}
			filter.VehicleType = &vehicle
		}
		available, err := validators.ParseQueryBool(r, "available")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Available = available

		rows, meta, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"riders": rows, "pagination": meta})
	}
}

func UpdateRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "rider id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateRiderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := riders.UpdateRiderInput{
			Name:          req.Name,
			Email:         req.Email,
			VehicleNumber: req.VehicleNumber,
		}
		if req.VehicleType != nil {
			vehicle, err := enums.ParseVehicleType(*req.VehicleType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid vehicle type"))
				return
			}
			input.VehicleType = &vehicle
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteRider(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "rider id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": id.String()})
	}
}

func SetRiderStatus(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "rider id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req riderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseRiderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rider status"))
			return
		}

		dto, err := svc.SetStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func UpdateRiderLocation(svc riders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "riders service unavailable"))
			return
		}
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "rider id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req riderLocationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		loc := types.Location{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Address:   req.Address,
		}
		if err := svc.UpdateLocation(r.Context(), id, loc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"updated": id.String()})
	}
}
