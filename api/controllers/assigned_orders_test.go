package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velomart/velomart-backend/internal/assignments"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

type testAssignmentsService struct {
	assignFn       func(ctx context.Context, input assignments.AssignInput) (*assignments.AssignmentDTO, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.AssignmentStatus) (*assignments.AssignmentDTO, error)
	verifyPickupFn func(ctx context.Context, id uuid.UUID, otp string) (*assignments.AssignmentDTO, error)
	statsFn        func(ctx context.Context, riderID *uuid.UUID) (*assignments.StatsResult, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (s *testAssignmentsService) Assign(ctx context.Context, input assignments.AssignInput) (*assignments.AssignmentDTO, error) {
	if s.assignFn != nil {
		return s.assignFn(ctx, input)
	}
	return &assignments.AssignmentDTO{}, nil
}

func (s *testAssignmentsService) BulkAssign(ctx context.Context, input assignments.BulkAssignInput) ([]assignments.AssignmentDTO, error) {
	return nil, nil
}

func (s *testAssignmentsService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AssignmentStatus) (*assignments.AssignmentDTO, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, id, status)
	}
	return &assignments.AssignmentDTO{}, nil
}

func (s *testAssignmentsService) Reassign(ctx context.Context, id, newRiderID uuid.UUID, reason string) (*assignments.AssignmentDTO, error) {
	return &assignments.AssignmentDTO{}, nil
}

func (s *testAssignmentsService) AddDeliveryProof(ctx context.Context, id uuid.UUID, proof []string) (*assignments.AssignmentDTO, error) {
	return &assignments.AssignmentDTO{}, nil
}

func (s *testAssignmentsService) VerifyPickup(ctx context.Context, id uuid.UUID, otp string) (*assignments.AssignmentDTO, error) {
	if s.verifyPickupFn != nil {
		return s.verifyPickupFn(ctx, id, otp)
	}
	return &assignments.AssignmentDTO{}, nil
}

func (s *testAssignmentsService) Get(ctx context.Context, id uuid.UUID) (*assignments.AssignmentDTO, error) {
	return &assignments.AssignmentDTO{}, nil
}

func (s *testAssignmentsService) List(ctx context.Context, filter assignments.ListFilter) ([]assignments.AssignmentDTO, pagination.Meta, error) {
	return nil, pagination.Meta{}, nil
}

func (s *testAssignmentsService) Update(ctx context.Context, id uuid.UUID, input assignments.UpdateInput) (*assignments.AssignmentDTO, error) {
	return &assignments.AssignmentDTO{}, nil
}

func (s *testAssignmentsService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testAssignmentsService) Stats(ctx context.Context, riderID *uuid.UUID) (*assignments.StatsResult, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx, riderID)
	}
	return &assignments.StatsResult{}, nil
}

func (s *testAssignmentsService) TrackingInfo(ctx context.Context, id uuid.UUID) (*assignments.TrackingDTO, error) {
	return &assignments.TrackingDTO{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAssignOrderCreated(t *testing.T) {
	orderID := uuid.New()
	riderID := uuid.New()
	userID := uuid.New()
	called := false
	svc := &testAssignmentsService{
		assignFn: func(ctx context.Context, input assignments.AssignInput) (*assignments.AssignmentDTO, error) {
			called = true
			if input.OrderID != orderID || input.RiderID != riderID || input.UserID != userID {
				t.Fatalf("unexpected assign input %+v", input)
			}
			return &assignments.AssignmentDTO{ID: uuid.New()}, nil
		},
	}

	body := `{"orderId":"` + orderID.String() + `","riderId":"` + riderID.String() + `","userId":"` + userID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assigned-orders/assign", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AssignOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestAssignOrderRejectsUnknownField(t *testing.T) {
	body := `{"orderId":"` + uuid.NewString() + `","riderId":"` + uuid.NewString() + `","userId":"` + uuid.NewString() + `","bogus":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assigned-orders/assign", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AssignOrder(&testAssignmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateAssignmentStatusRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/assigned-orders/x/status", strings.NewReader(`{"status":"teleported"}`))
	req = addRouteParam(req, "id", uuid.NewString())
	resp := httptest.NewRecorder()
	UpdateAssignmentStatus(&testAssignmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestVerifyPickupPassesOTP(t *testing.T) {
	id := uuid.New()
	var gotOTP string
	svc := &testAssignmentsService{
		verifyPickupFn: func(ctx context.Context, gotID uuid.UUID, otp string) (*assignments.AssignmentDTO, error) {
			if gotID != id {
				t.Fatalf("unexpected assignment id %s", gotID)
			}
			gotOTP = otp
			return &assignments.AssignmentDTO{ID: id, Status: enums.AssignmentStatusPickedUp}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assigned-orders/x/verify-pickup", strings.NewReader(`{"otp":"ab12"}`))
	req = addRouteParam(req, "id", id.String())
	resp := httptest.NewRecorder()
	VerifyPickup(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotOTP != "ab12" {
		t.Fatalf("unexpected otp %q", gotOTP)
	}
}

func TestVerifyPickupRejectsShortOTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assigned-orders/x/verify-pickup", strings.NewReader(`{"otp":"12"}`))
	req = addRouteParam(req, "id", uuid.NewString())
	resp := httptest.NewRecorder()
	VerifyPickup(&testAssignmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAddDeliveryProofRejectsEmptyList(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assigned-orders/x/delivery-proof", strings.NewReader(`{"proof":[]}`))
	req = addRouteParam(req, "id", uuid.NewString())
	resp := httptest.NewRecorder()
	AddDeliveryProof(&testAssignmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAssignmentStatsScopesRider(t *testing.T) {
	riderID := uuid.New()
	svc := &testAssignmentsService{
		statsFn: func(ctx context.Context, got *uuid.UUID) (*assignments.StatsResult, error) {
			if got == nil || *got != riderID {
				t.Fatalf("expected rider filter %s, got %v", riderID, got)
			}
			return &assignments.StatsResult{Total: 3}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assigned-orders/stats?riderId="+riderID.String(), nil)
	resp := httptest.NewRecorder()
	AssignmentStats(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data assignments.StatsResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Total != 3 {
		t.Fatalf("unexpected total %d", envelope.Data.Total)
	}
}

func TestDeleteAssignmentReturnsID(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/assigned-orders/"+id.String(), nil)
	req = addRouteParam(req, "id", id.String())
	resp := httptest.NewRecorder()
	DeleteAssignment(&testAssignmentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["deleted"] != id.String() {
		t.Fatalf("unexpected delete payload %v", envelope.Data)
	}
}
