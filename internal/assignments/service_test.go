package assignments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/internal/riders"
	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/outbox"
	"github.com/velomart/velomart-backend/pkg/types"
)

type stubAssignRepo struct {
	entries   map[uuid.UUID]*models.AssignedOrder
	createErr error
	pairCount int64
	deleted   []uuid.UUID
}

func newStubAssignRepo() *stubAssignRepo {
	return &stubAssignRepo{entries: make(map[uuid.UUID]*models.AssignedOrder)}
}

func (s *stubAssignRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAssignRepo) Create(ctx context.Context, entry *models.AssignedOrder) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.entries {
		if existing.OrderID == entry.OrderID && existing.RiderID == entry.RiderID {
			return errors.New("duplicate key value violates unique constraint \"uq_assigned_orders_order_rider\"")
		}
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	copied := *entry
	s.entries[entry.ID] = &copied
	return nil
}

func (s *stubAssignRepo) Find(ctx context.Context, id uuid.UUID) (*models.AssignedOrder, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (s *stubAssignRepo) List(ctx context.Context, params ListFilter) ([]models.AssignedOrder, int64, error) {
	out := make([]models.AssignedOrder, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, *entry)
	}
	return out, int64(len(out)), nil
}

func (s *stubAssignRepo) Update(ctx context.Context, entry *models.AssignedOrder) error {
	if _, ok := s.entries[entry.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *entry
	s.entries[entry.ID] = &copied
	return nil
}

func (s *stubAssignRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.entries[id]; !ok {
		return false, nil
	}
	delete(s.entries, id)
	s.deleted = append(s.deleted, id)
	return true, nil
}

func (s *stubAssignRepo) ExistingPairCount(ctx context.Context, pairs []OrderRiderPair) (int64, error) {
	if s.pairCount > 0 {
		return s.pairCount, nil
	}
	var count int64
	for _, pair := range pairs {
		for _, entry := range s.entries {
			if entry.OrderID == pair.OrderID && entry.RiderID == pair.RiderID {
				count++
			}
		}
	}
	return count, nil
}

func (s *stubAssignRepo) CountForRider(ctx context.Context, riderID uuid.UUID, statuses []enums.AssignmentStatus) (int64, error) {
	var count int64
	for _, entry := range s.entries {
		if entry.RiderID != riderID {
			continue
		}
		for _, status := range statuses {
			if entry.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *stubAssignRepo) CountByStatus(ctx context.Context, riderID *uuid.UUID) (map[enums.AssignmentStatus]int64, error) {
	counts := make(map[enums.AssignmentStatus]int64)
	for _, entry := range s.entries {
		if riderID != nil && entry.RiderID != *riderID {
			continue
		}
		counts[entry.Status]++
	}
	return counts, nil
}

type riderStatusCall struct {
	status    enums.RiderStatus
	available bool
}

type stubRiderRepo struct {
	riders      map[uuid.UUID]*models.Rider
	statusCalls map[uuid.UUID][]riderStatusCall
	increments  map[uuid.UUID]int
}

func newStubRiderRepo(ids ...uuid.UUID) *stubRiderRepo {
	repo := &stubRiderRepo{
		riders:      make(map[uuid.UUID]*models.Rider),
		statusCalls: make(map[uuid.UUID][]riderStatusCall),
		increments:  make(map[uuid.UUID]int),
	}
	for i, id := range ids {
		repo.riders[id] = &models.Rider{
			ID:          id,
			Name:        fmt.Sprintf("Rider %d", i+1),
			Phone:       fmt.Sprintf("+3546660%03d", i+1),
			VehicleType: enums.VehicleTypeBike,
			Status:      enums.RiderStatusAvailable,
			IsAvailable: true,
		}
	}
	return repo
}

func (s *stubRiderRepo) WithTx(tx *gorm.DB) riders.Repository { return s }

func (s *stubRiderRepo) Create(ctx context.Context, rider *models.Rider) error {
	s.riders[rider.ID] = rider
	return nil
}

func (s *stubRiderRepo) Find(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	rider, ok := s.riders[id]
	if !ok {
		return nil, nil
	}
	return rider, nil
}

func (s *stubRiderRepo) List(ctx context.Context, params riders.ListFilter) ([]models.Rider, int64, error) {
	panic("not implemented")
}

func (s *stubRiderRepo) Update(ctx context.Context, rider *models.Rider) error {
	s.riders[rider.ID] = rider
	return nil
}

func (s *stubRiderRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	panic("not implemented")
}

func (s *stubRiderRepo) SetStatus(ctx context.Context, id uuid.UUID, status enums.RiderStatus, available bool) error {
	s.statusCalls[id] = append(s.statusCalls[id], riderStatusCall{status: status, available: available})
	if rider, ok := s.riders[id]; ok {
		rider.Status = status
		rider.IsAvailable = available
	}
	return nil
}

func (s *stubRiderRepo) IncrementDeliveries(ctx context.Context, id uuid.UUID) error {
	s.increments[id]++
	if rider, ok := s.riders[id]; ok {
		rider.TotalDeliveries++
	}
	return nil
}

func (s *stubRiderRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	return nil
}

func (s *stubRiderRepo) UpdateLocation(ctx context.Context, id uuid.UUID, loc types.Location) error {
	return nil
}

func (s *stubRiderRepo) lastStatus(id uuid.UUID) *riderStatusCall {
	calls := s.statusCalls[id]
	if len(calls) == 0 {
		return nil
	}
	return &calls[len(calls)-1]
}

type stubOrderRepo struct {
	orders  map[uuid.UUID]*models.Order
	missing []uuid.UUID
}

func newStubOrderRepo(ids ...uuid.UUID) *stubOrderRepo {
	repo := &stubOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, id := range ids {
		repo.orders[id] = &models.Order{
			ID:     id,
			UserID: uuid.New(),
			Status: enums.OrderStatusPending,
		}
	}
	return repo
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) error {
	panic("not implemented")
}

func (s *stubOrderRepo) Find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return order, nil
}

func (s *stubOrderRepo) ExistsAll(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if s.missing != nil {
		return s.missing, nil
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := s.orders[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *stubOrderRepo) List(ctx context.Context, params orders.ListFilter) ([]models.Order, int64, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) SetStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, at time.Time) error {
	if order, ok := s.orders[id]; ok {
		order.Status = status
	}
	return nil
}

func (s *stubOrderRepo) Update(ctx context.Context, order *models.Order) error {
	s.orders[order.ID] = order
	return nil
}

type orderSyncCall struct {
	orderID uuid.UUID
	at      time.Time
}

type stubOrderSync struct {
	confirmed []orderSyncCall
	delivered []orderSyncCall
}

func (s *stubOrderSync) MarkConfirmed(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, at time.Time) error {
	s.confirmed = append(s.confirmed, orderSyncCall{orderID: orderID, at: at})
	return nil
}

func (s *stubOrderSync) MarkDelivered(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, at time.Time) error {
	s.delivered = append(s.delivered, orderSyncCall{orderID: orderID, at: at})
	return nil
}

type stubLocker struct {
	err      error
	acquired []string
	released int
}

func (s *stubLocker) Acquire(ctx context.Context, scope, id string) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	s.acquired = append(s.acquired, scope+":"+id)
	return func() { s.released++ }, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutbox) eventTypes() []enums.OutboxEventType {
	out := make([]enums.OutboxEventType, 0, len(s.events))
	for _, event := range s.events {
		out = append(out, event.EventType)
	}
	return out
}

type workflowFixture struct {
	svc       Service
	repo      *stubAssignRepo
	riderRepo *stubRiderRepo
	orderRepo *stubOrderRepo
	orderSync *stubOrderSync
	locker    *stubLocker
	outbox    *stubOutbox
}

func newWorkflowFixture(t *testing.T, riderIDs []uuid.UUID, orderIDs []uuid.UUID) *workflowFixture {
	t.Helper()
	f := &workflowFixture{
		repo:      newStubAssignRepo(),
		riderRepo: newStubRiderRepo(riderIDs...),
		orderRepo: newStubOrderRepo(orderIDs...),
		orderSync: &stubOrderSync{},
		locker:    &stubLocker{},
		outbox:    &stubOutbox{},
	}
	svc, err := NewService(f.repo, stubTxRunner{}, f.riderRepo, f.orderRepo, f.orderSync, f.locker, f.outbox, nil, nil)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	f.svc = svc
	return f
}

func (f *workflowFixture) seedEntry(t *testing.T, status enums.AssignmentStatus, orderID, riderID uuid.UUID) *models.AssignedOrder {
	t.Helper()
	entry := &models.AssignedOrder{
		ID:         uuid.New(),
		OrderID:    orderID,
		RiderID:    riderID,
		UserID:     uuid.New(),
		Status:     status,
		AssignedAt: time.Now().UTC().Add(-time.Hour),
	}
	if status != enums.AssignmentStatusAssigned {
		pickedUp := entry.AssignedAt.Add(10 * time.Minute)
		entry.PickedUpAt = &pickedUp
	}
	f.repo.entries[entry.ID] = entry
	return entry
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestAssignCreatesEntryAndMarksRiderBusy(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})

	dto, err := f.svc.Assign(context.Background(), AssignInput{
		OrderID: orderID,
		RiderID: riderID,
		UserID:  uuid.New(),
		Notes:   "leave at reception",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.AssignmentStatusAssigned {
		t.Fatalf("unexpected status %s", dto.Status)
	}
	if dto.Notes != "leave at reception" {
		t.Fatalf("unexpected notes %q", dto.Notes)
	}

	call := f.riderRepo.lastStatus(riderID)
	if call == nil || call.status != enums.RiderStatusBusy || call.available {
		t.Fatalf("expected rider marked busy, got %+v", call)
	}
	if got := f.outbox.eventTypes(); len(got) != 1 || got[0] != enums.EventAssignmentCreated {
		t.Fatalf("unexpected events %v", got)
	}
	if f.locker.released != 1 {
		t.Fatalf("expected lock released once, got %d", f.locker.released)
	}
}

func TestAssignDuplicatePairReturnsConflict(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	_, err := f.svc.Assign(context.Background(), AssignInput{
		OrderID: orderID,
		RiderID: riderID,
		UserID:  uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeConflict)
	if len(f.outbox.events) != 0 {
		t.Fatal("unexpected outbox event")
	}
}

func TestAssignUnknownRiderOrOrder(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})

	_, err := f.svc.Assign(context.Background(), AssignInput{
		OrderID: orderID,
		RiderID: uuid.New(),
		UserID:  uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.Assign(context.Background(), AssignInput{
		OrderID: uuid.New(),
		RiderID: riderID,
		UserID:  uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestAssignLockContention(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	f.locker.err = errors.New("lock held")

	_, err := f.svc.Assign(context.Background(), AssignInput{
		OrderID: orderID,
		RiderID: riderID,
		UserID:  uuid.New(),
	})
	expectCode(t, err, pkgerrors.CodeConflict)
	if len(f.repo.entries) != 0 {
		t.Fatal("no entry should be created under contention")
	}
}

func TestBulkAssignAllOrNothingOnMissingOrders(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})

	_, err := f.svc.BulkAssign(context.Background(), BulkAssignInput{Items: []AssignInput{
		{OrderID: orderID, RiderID: riderID, UserID: uuid.New()},
		{OrderID: uuid.New(), RiderID: riderID, UserID: uuid.New()},
	}})
	expectCode(t, err, pkgerrors.CodeNotFound)
	if len(f.repo.entries) != 0 {
		t.Fatalf("expected no writes, got %d entries", len(f.repo.entries))
	}
	if len(f.outbox.events) != 0 {
		t.Fatal("unexpected outbox events")
	}
}

func TestBulkAssignRejectsExistingPairs(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	f.repo.pairCount = 1

	_, err := f.svc.BulkAssign(context.Background(), BulkAssignInput{Items: []AssignInput{
		{OrderID: orderID, RiderID: riderID, UserID: uuid.New()},
	}})
	expectCode(t, err, pkgerrors.CodeConflict)
	if len(f.repo.entries) != 0 {
		t.Fatal("expected no writes")
	}
}

func TestBulkAssignCreatesAllEntries(t *testing.T) {
	riderA := uuid.New()
	riderB := uuid.New()
	orderA := uuid.New()
	orderB := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderA, riderB}, []uuid.UUID{orderA, orderB})

	out, err := f.svc.BulkAssign(context.Background(), BulkAssignInput{Items: []AssignInput{
		{OrderID: orderA, RiderID: riderA, UserID: uuid.New()},
		{OrderID: orderB, RiderID: riderB, UserID: uuid.New()},
	}})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	if len(f.outbox.events) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(f.outbox.events))
	}
	for _, id := range []uuid.UUID{riderA, riderB} {
		call := f.riderRepo.lastStatus(id)
		if call == nil || call.status != enums.RiderStatusBusy {
			t.Fatalf("rider %s not marked busy", id)
		}
	}
}

func TestBulkAssignEmptyBatch(t *testing.T) {
	f := newWorkflowFixture(t, nil, nil)
	_, err := f.svc.BulkAssign(context.Background(), BulkAssignInput{})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateStatusRejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		from enums.AssignmentStatus
		to   enums.AssignmentStatus
		ok   bool
	}{
		{enums.AssignmentStatusAssigned, enums.AssignmentStatusPickedUp, true},
		{enums.AssignmentStatusAssigned, enums.AssignmentStatusCancelled, true},
		{enums.AssignmentStatusAssigned, enums.AssignmentStatusDelivered, false},
		{enums.AssignmentStatusAssigned, enums.AssignmentStatusInTransit, false},
		{enums.AssignmentStatusPickedUp, enums.AssignmentStatusInTransit, true},
		{enums.AssignmentStatusPickedUp, enums.AssignmentStatusDelivered, false},
		{enums.AssignmentStatusInTransit, enums.AssignmentStatusDelivered, true},
		{enums.AssignmentStatusDelivered, enums.AssignmentStatusAssigned, false},
		{enums.AssignmentStatusCancelled, enums.AssignmentStatusPickedUp, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			riderID := uuid.New()
			orderID := uuid.New()
			f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
			entry := f.seedEntry(t, tc.from, orderID, riderID)

			dto, err := f.svc.UpdateStatus(context.Background(), entry.ID, tc.to)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected transition to succeed, got %v", err)
				}
				if dto.Status != tc.to {
					t.Fatalf("expected status %s got %s", tc.to, dto.Status)
				}
				return
			}
			expectCode(t, err, pkgerrors.CodeStateConflict)
			if stored := f.repo.entries[entry.ID]; stored.Status != tc.from {
				t.Fatalf("status mutated on rejected transition: %s", stored.Status)
			}
		})
	}
}

func TestUpdateStatusDeliveredSideEffects(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusInTransit, orderID, riderID)

	dto, err := f.svc.UpdateStatus(context.Background(), entry.ID, enums.AssignmentStatusDelivered)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.DeliveredAt == nil {
		t.Fatal("expected deliveredAt to be set")
	}
	if f.riderRepo.increments[riderID] != 1 {
		t.Fatalf("expected exactly one delivery increment, got %d", f.riderRepo.increments[riderID])
	}
	if len(f.orderSync.delivered) != 1 || f.orderSync.delivered[0].orderID != orderID {
		t.Fatalf("expected order sync delivered call, got %+v", f.orderSync.delivered)
	}
	call := f.riderRepo.lastStatus(riderID)
	if call == nil || call.status != enums.RiderStatusAvailable || !call.available {
		t.Fatalf("expected rider back to available, got %+v", call)
	}

	types := f.outbox.eventTypes()
	if len(types) != 2 || types[0] != enums.EventOrderDelivered || types[1] != enums.EventAssignmentStatusChanged {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestUpdateStatusDeliveredKeepsBusyRiderBusy(t *testing.T) {
	riderID := uuid.New()
	orderA := uuid.New()
	orderB := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderA, orderB})
	entry := f.seedEntry(t, enums.AssignmentStatusInTransit, orderA, riderID)
	f.seedEntry(t, enums.AssignmentStatusAssigned, orderB, riderID)

	if _, err := f.svc.UpdateStatus(context.Background(), entry.ID, enums.AssignmentStatusDelivered); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	call := f.riderRepo.lastStatus(riderID)
	if call == nil || call.status != enums.RiderStatusBusy || call.available {
		t.Fatalf("rider with open work must stay busy, got %+v", call)
	}
}

func TestUpdateStatusCancelledFreesRider(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	dto, err := f.svc.UpdateStatus(context.Background(), entry.ID, enums.AssignmentStatusCancelled)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.CancelledAt == nil {
		t.Fatal("expected cancelledAt")
	}
	if f.riderRepo.increments[riderID] != 0 {
		t.Fatal("cancellation must not count as a delivery")
	}
	if len(f.orderSync.delivered) != 0 {
		t.Fatal("cancellation must not sync order delivery")
	}
	call := f.riderRepo.lastStatus(riderID)
	if call == nil || call.status != enums.RiderStatusAvailable {
		t.Fatalf("expected rider freed, got %+v", call)
	}
}

func TestReassignSameRiderConflict(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	_, err := f.svc.Reassign(context.Background(), entry.ID, riderID, "same rider")
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestReassignMovesEntryAndRecomputesOldRider(t *testing.T) {
	oldRider := uuid.New()
	newRider := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{oldRider, newRider}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, oldRider)
	entry.Notes = "fragile"
	f.repo.entries[entry.ID] = entry

	dto, err := f.svc.Reassign(context.Background(), entry.ID, newRider, "rider unreachable")
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.RiderID != newRider {
		t.Fatalf("expected new rider, got %s", dto.RiderID)
	}
	if dto.Notes != "fragile\nReassigned: rider unreachable" {
		t.Fatalf("unexpected notes %q", dto.Notes)
	}

	oldCall := f.riderRepo.lastStatus(oldRider)
	if oldCall == nil || oldCall.status != enums.RiderStatusAvailable || !oldCall.available {
		t.Fatalf("expected old rider freed, got %+v", oldCall)
	}
	newCall := f.riderRepo.lastStatus(newRider)
	if newCall == nil || newCall.status != enums.RiderStatusBusy {
		t.Fatalf("expected new rider busy, got %+v", newCall)
	}
	if got := f.outbox.eventTypes(); len(got) != 1 || got[0] != enums.EventAssignmentReassigned {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestReassignIgnoresInTransitWorkForOldRider(t *testing.T) {
	oldRider := uuid.New()
	newRider := uuid.New()
	orderA := uuid.New()
	orderB := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{oldRider, newRider}, []uuid.UUID{orderA, orderB})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderA, oldRider)
	inTransit := f.seedEntry(t, enums.AssignmentStatusInTransit, orderB, oldRider)
	_ = inTransit

	if _, err := f.svc.Reassign(context.Background(), entry.ID, newRider, ""); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	// The carrying-set recheck does not see in-transit work, so the old
	// rider flips back to available despite the ongoing delivery.
	oldCall := f.riderRepo.lastStatus(oldRider)
	if oldCall == nil || oldCall.status != enums.RiderStatusAvailable {
		t.Fatalf("expected old rider available, got %+v", oldCall)
	}
}

func TestAddDeliveryProofRequiresPickedUp(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	_, err := f.svc.AddDeliveryProof(context.Background(), entry.ID, []string{"img-1"})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAddDeliveryProofCompletesDelivery(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusPickedUp, orderID, riderID)

	dto, err := f.svc.AddDeliveryProof(context.Background(), entry.ID, []string{"img-1", "img-2"})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.AssignmentStatusDelivered || dto.DeliveredAt == nil {
		t.Fatalf("expected delivered entry, got %+v", dto)
	}
	if len(dto.DeliveryProof) != 2 {
		t.Fatalf("expected 2 proof items, got %d", len(dto.DeliveryProof))
	}
	if f.riderRepo.increments[riderID] != 1 {
		t.Fatalf("expected one delivery increment, got %d", f.riderRepo.increments[riderID])
	}
	if len(f.orderSync.delivered) != 1 {
		t.Fatal("expected order sync delivered call")
	}
	if got := f.outbox.eventTypes(); len(got) != 1 || got[0] != enums.EventOrderDelivered {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestVerifyPickupChecksOTP(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	_, err := f.svc.VerifyPickup(context.Background(), entry.ID, "0000")
	expectCode(t, err, pkgerrors.CodeValidation)
	if stored := f.repo.entries[entry.ID]; stored.Status != enums.AssignmentStatusAssigned {
		t.Fatalf("status mutated on bad OTP: %s", stored.Status)
	}
	if len(f.orderSync.confirmed) != 0 {
		t.Fatal("order must not be confirmed on bad OTP")
	}
}

func TestVerifyPickupMovesToPickedUp(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	otp := orderID.String()[len(orderID.String())-4:]
	dto, err := f.svc.VerifyPickup(context.Background(), entry.ID, otp)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.AssignmentStatusPickedUp || dto.PickedUpAt == nil {
		t.Fatalf("expected picked-up entry, got %+v", dto)
	}
	if len(f.orderSync.confirmed) != 1 || f.orderSync.confirmed[0].orderID != orderID {
		t.Fatalf("expected order confirmed, got %+v", f.orderSync.confirmed)
	}
	if got := f.outbox.eventTypes(); len(got) != 1 || got[0] != enums.EventPickupVerified {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestVerifyPickupRequiresAssignedStatus(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusPickedUp, orderID, riderID)

	otp := orderID.String()[len(orderID.String())-4:]
	_, err := f.svc.VerifyPickup(context.Background(), entry.ID, otp)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDeleteRecomputesAvailability(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	if err := f.svc.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(f.repo.deleted) != 1 {
		t.Fatal("expected entry deleted")
	}
	call := f.riderRepo.lastStatus(riderID)
	if call == nil || call.status != enums.RiderStatusAvailable {
		t.Fatalf("expected rider freed after delete, got %+v", call)
	}
}

func TestDeleteUnknownEntry(t *testing.T) {
	f := newWorkflowFixture(t, nil, nil)
	err := f.svc.Delete(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestStatsAggregatesByStatus(t *testing.T) {
	riderID := uuid.New()
	orderA := uuid.New()
	orderB := uuid.New()
	orderC := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderA, orderB, orderC})
	f.seedEntry(t, enums.AssignmentStatusAssigned, orderA, riderID)
	f.seedEntry(t, enums.AssignmentStatusAssigned, orderB, riderID)
	f.seedEntry(t, enums.AssignmentStatusDelivered, orderC, riderID)

	stats, err := f.svc.Stats(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected total 3 got %d", stats.Total)
	}
	if stats.ByStatus[enums.AssignmentStatusAssigned] != 2 {
		t.Fatalf("unexpected assigned count %d", stats.ByStatus[enums.AssignmentStatusAssigned])
	}
	if stats.ByStatus[enums.AssignmentStatusDelivered] != 1 {
		t.Fatalf("unexpected delivered count %d", stats.ByStatus[enums.AssignmentStatusDelivered])
	}
}

func TestTrackingInfoOmitsCancellation(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusPickedUp, orderID, riderID)
	cancelledAt := time.Now().UTC()
	entry.Status = enums.AssignmentStatusCancelled
	entry.CancelledAt = &cancelledAt
	f.repo.entries[entry.ID] = entry

	tracking, err := f.svc.TrackingInfo(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if tracking.Rider == nil || tracking.Rider.ID != riderID {
		t.Fatalf("expected rider info, got %+v", tracking.Rider)
	}
	if tracking.Order == nil || tracking.Order.ID != orderID {
		t.Fatalf("expected order info, got %+v", tracking.Order)
	}
	if len(tracking.StatusHistory) != 2 {
		t.Fatalf("expected assigned and picked-up history, got %d entries", len(tracking.StatusHistory))
	}
	for _, item := range tracking.StatusHistory {
		if item.Status == enums.AssignmentStatusCancelled {
			t.Fatal("cancellation must not appear in tracking history")
		}
	}
}

func TestUpdatePatchesNotes(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	entry := f.seedEntry(t, enums.AssignmentStatusAssigned, orderID, riderID)

	notes := "call on arrival"
	dto, err := f.svc.Update(context.Background(), entry.ID, UpdateInput{Notes: &notes})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Notes != notes {
		t.Fatalf("unexpected notes %q", dto.Notes)
	}
}

func TestOutboxFailureDoesNotFailWorkflow(t *testing.T) {
	riderID := uuid.New()
	orderID := uuid.New()
	f := newWorkflowFixture(t, []uuid.UUID{riderID}, []uuid.UUID{orderID})
	f.outbox.err = errors.New("outbox unavailable")

	_, err := f.svc.Assign(context.Background(), AssignInput{
		OrderID: orderID,
		RiderID: riderID,
		UserID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("outbox failure must not fail the call, got %v", err)
	}
}
