package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velomart/velomart-backend/api/responses"
	"github.com/velomart/velomart-backend/api/validators"
	"github.com/velomart/velomart-backend/internal/assignments"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
)

type assignRequest struct {
	OrderID string `json:"orderId" validate:"required,uuid"`
	RiderID string `json:"riderId" validate:"required,uuid"`
	UserID  string `json:"userId" validate:"required,uuid"`
	Notes   string `json:"notes,omitempty" validate:"max=1000"`
}

type bulkAssignRequest struct {
	Assignments []assignRequest `json:"assignments" validate:"required,min=1,dive"`
}

type assignmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type reassignRequest struct {
	RiderID string `json:"riderId" validate:"required,uuid"`
	Reason  string `json:"reason" validate:"required,max=500"`
}

type deliveryProofRequest struct {
	Proof []string `json:"proof" validate:"required,min=1,dive,required"`
}

type verifyPickupRequest struct {
	OTP string `json:"otp" validate:"required,len=4"`
}

type updateAssignmentRequest struct {
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Status *string `json:"status,omitempty"`
}

func assignInputFromRequest(req assignRequest) (assignments.AssignInput, error) {
	orderID, err := validators.ParsePathUUID(req.OrderID, "order id")
	if err != nil {
		return assignments.AssignInput{}, err
	}
	riderID, err := validators.ParsePathUUID(req.RiderID, "rider id")
	if err != nil {
		return assignments.AssignInput{}, err
	}
	userID, err := validators.ParsePathUUID(req.UserID, "user id")
	if err != nil {
		return assignments.AssignInput{}, err
	}
	return assignments.AssignInput{
		OrderID: orderID,
		RiderID: riderID,
		UserID:  userID,
		Notes:   req.Notes,
	}, nil
}

func AssignOrder(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		var req assignRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := assignInputFromRequest(req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Assign(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func BulkAssignOrders(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		var req bulkAssignRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]assignments.AssignInput, 0, len(req.Assignments))
		for _, entry := range req.Assignments {
			input, err := assignInputFromRequest(entry)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items = append(items, input)
		}

		rows, err := svc.BulkAssign(r.Context(), assignments.BulkAssignInput{Items: items})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"assignments": rows, "count": len(rows)})
	}
}

func GetAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
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

func ListAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		filter, err := assignmentFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assignments": rows, "pagination": meta})
	}
}

// ListRiderAssignments serves the rider-scoped listing. The path rider id
// overrides any riderId query parameter.
func ListRiderAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		riderID, err := validators.ParsePathUUID(chi.URLParam(r, "riderId"), "rider id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := assignmentFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.RiderID = &riderID

		rows, meta, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assignments": rows, "pagination": meta})
	}
}

// ListUserAssignments serves the customer-scoped listing.
func ListUserAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		userID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := assignmentFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.UserID = &userID

		rows, meta, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assignments": rows, "pagination": meta})
	}
}

func UpdateAssignmentStatus(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req assignmentStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseAssignmentStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment status"))
			return
		}

		dto, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func ReassignOrder(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req reassignRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		riderID, err := validators.ParsePathUUID(req.RiderID, "rider id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Reassign(r.Context(), id, riderID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AddDeliveryProof(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req deliveryProofRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddDeliveryProof(r.Context(), id, req.Proof)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func VerifyPickup(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req verifyPickupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.VerifyPickup(r.Context(), id, req.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func UpdateAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateAssignmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := assignments.UpdateInput{Notes: req.Notes}
		if req.Status != nil {
			status, err := enums.ParseAssignmentStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignment status"))
				return
			}
			input.Status = &status
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func DeleteAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
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

func AssignmentStats(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		riderID, err := validators.ParseQueryUUID(r, "riderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), riderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func TrackAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignments service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "assignment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.TrackingInfo(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func assignmentFilterFromQuery(r *http.Request) (assignments.ListFilter, error) {
	page, err := validators.ParsePage(r)
	if err != nil {
		return assignments.ListFilter{}, err
	}
	filter := assignments.ListFilter{Page: page}

	filter.RiderID, err = validators.ParseQueryUUID(r, "riderId")
	if err != nil {
		return assignments.ListFilter{}, err
	}
	filter.OrderID, err = validators.ParseQueryUUID(r, "orderId")
	if err != nil {
		return assignments.ListFilter{}, err
	}
	filter.UserID, err = validators.ParseQueryUUID(r, "userId")
	if err != nil {
		return assignments.ListFilter{}, err
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseAssignmentStatus(raw)
		if err != nil {
			return assignments.ListFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter.Status = &status
	}
	filter.From, err = parseTimeQuery(r, "from")
	if err != nil {
		return assignments.ListFilter{}, err
	}
	filter.To, err = parseTimeQuery(r, "to")
	if err != nil {
		return assignments.ListFilter{}, err
	}
	return filter, nil
}

func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be an RFC3339 timestamp").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}
