package assignments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/internal/orders"
	"github.com/velomart/velomart-backend/internal/riders"
	"github.com/velomart/velomart-backend/pkg/db"
	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/metrics"
	"github.com/velomart/velomart-backend/pkg/outbox"
	"github.com/velomart/velomart-backend/pkg/outbox/payloads"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

const (
	lockScopeEntry  = "assignment"
	lockScopeAssign = "order-assign"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service drives the order-to-rider assignment workflow.
type Service interface {
	Assign(ctx context.Context, input AssignInput) (*AssignmentDTO, error)
	BulkAssign(ctx context.Context, input BulkAssignInput) ([]AssignmentDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AssignmentStatus) (*AssignmentDTO, error)
	Reassign(ctx context.Context, id, newRiderID uuid.UUID, reason string) (*AssignmentDTO, error)
	AddDeliveryProof(ctx context.Context, id uuid.UUID, proof []string) (*AssignmentDTO, error)
	VerifyPickup(ctx context.Context, id uuid.UUID, otp string) (*AssignmentDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AssignmentDTO, error)
	List(ctx context.Context, filter ListFilter) ([]AssignmentDTO, pagination.Meta, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*AssignmentDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, riderID *uuid.UUID) (*StatsResult, error)
	TrackingInfo(ctx context.Context, id uuid.UUID) (*TrackingDTO, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	riderRepo riders.Repository
	orderRepo orders.Repository
	orderSync OrderSync
	locker    Locker
	outbox    outboxPublisher
	metrics   *metrics.WorkflowMetrics
	logg      *logger.Logger
}

// NewService wires the assignment workflow dependencies.
func NewService(
	repo Repository,
	tx txRunner,
	riderRepo riders.Repository,
	orderRepo orders.Repository,
	orderSync OrderSync,
	locker Locker,
	outboxSvc outboxPublisher,
	workflowMetrics *metrics.WorkflowMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil || riderRepo == nil || orderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "assignment repositories required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if orderSync == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order sync required")
	}
	if locker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "locker required")
	}
	if outboxSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		riderRepo: riderRepo,
		orderRepo: orderRepo,
		orderSync: orderSync,
		locker:    locker,
		outbox:    outboxSvc,
		metrics:   workflowMetrics,
		logg:      logg,
	}, nil
}

func (s *service) Assign(ctx context.Context, input AssignInput) (*AssignmentDTO, error) {
	done := s.observe("assign")
	entry, err := s.assign(ctx, input)
	done(err)
	return entry, err
}

func (s *service) assign(ctx context.Context, input AssignInput) (*AssignmentDTO, error) {
	if input.OrderID == uuid.Nil || input.RiderID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId, riderId and userId are required")
	}

	release, err := s.locker.Acquire(ctx, lockScopeAssign, input.OrderID.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	entry := &dbmodels.AssignedOrder{
		OrderID:    input.OrderID,
		RiderID:    input.RiderID,
		UserID:     input.UserID,
		Status:     enums.AssignmentStatusAssigned,
		AssignedAt: time.Now().UTC(),
		Notes:      input.Notes,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		riderRepo := s.riderRepo.WithTx(tx)
		rider, err := riderRepo.Find(ctx, input.RiderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find rider")
		}
		if rider == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}

		order, err := s.orderRepo.WithTx(tx).Find(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
			if db.IsUniqueViolation(err, "uq_assigned_orders_order_rider") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already assigned to this rider")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}

		// Marking an already-busy rider busy again is a no-op by design.
		if err := riderRepo.SetStatus(ctx, input.RiderID, enums.RiderStatusBusy, false); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark rider busy")
		}

		s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAssignmentCreated,
			AggregateType: enums.AggregateAssignment,
			AggregateID:   entry.ID,
			Version:       1,
			Data: payloads.AssignmentCreatedEvent{
				AssignmentID: entry.ID,
				OrderID:      entry.OrderID,
				RiderID:      entry.RiderID,
				UserID:       entry.UserID,
				AssignedAt:   entry.AssignedAt,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, entry, "order assigned to rider")
	return FromModel(entry), nil
}

func (s *service) BulkAssign(ctx context.Context, input BulkAssignInput) ([]AssignmentDTO, error) {
	done := s.observe("bulk_assign")
	out, err := s.bulkAssign(ctx, input)
	done(err)
	return out, err
}

func (s *service) bulkAssign(ctx context.Context, input BulkAssignInput) ([]AssignmentDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignments batch cannot be empty")
	}

	orderIDs := make([]uuid.UUID, 0, len(input.Items))
	pairs := make([]OrderRiderPair, 0, len(input.Items))
	for _, item := range input.Items {
		if item.OrderID == uuid.Nil || item.RiderID == uuid.Nil || item.UserID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId, riderId and userId are required for every entry")
		}
		orderIDs = append(orderIDs, item.OrderID)
		pairs = append(pairs, OrderRiderPair{OrderID: item.OrderID, RiderID: item.RiderID})
	}

	var entries []dbmodels.AssignedOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		riderRepo := s.riderRepo.WithTx(tx)

		missing, err := s.orderRepo.WithTx(tx).ExistsAll(ctx, orderIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check orders")
		}
		if len(missing) > 0 {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "%d order(s) not found", len(missing)).
				WithDetails(map[string]any{"missingOrderIds": missing})
		}

		existing, err := repo.ExistingPairCount(ctx, pairs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing assignments")
		}
		if existing > 0 {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "%d assignment(s) already exist", existing)
		}

		now := time.Now().UTC()
		for _, item := range input.Items {
			rider, err := riderRepo.Find(ctx, item.RiderID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find rider")
			}
			if rider == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found").
					WithDetails(map[string]any{"riderId": item.RiderID})
			}

			entry := dbmodels.AssignedOrder{
				OrderID:    item.OrderID,
				RiderID:    item.RiderID,
				UserID:     item.UserID,
				Status:     enums.AssignmentStatusAssigned,
				AssignedAt: now,
				Notes:      item.Notes,
			}
			if err := repo.Create(ctx, &entry); err != nil {
				if db.IsUniqueViolation(err, "uq_assigned_orders_order_rider") {
					return pkgerrors.New(pkgerrors.CodeConflict, "duplicate assignment in batch")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
			}
			if err := riderRepo.SetStatus(ctx, item.RiderID, enums.RiderStatusBusy, false); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark rider busy")
			}

			s.emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventAssignmentCreated,
				AggregateType: enums.AggregateAssignment,
				AggregateID:   entry.ID,
				Version:       1,
				Data: payloads.AssignmentCreatedEvent{
					AssignmentID: entry.ID,
					OrderID:      entry.OrderID,
					RiderID:      entry.RiderID,
					UserID:       entry.UserID,
					AssignedAt:   entry.AssignedAt,
				},
			})
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "count", len(entries)), "bulk assignment completed")
	}
	return FromModels(entries), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AssignmentStatus) (*AssignmentDTO, error) {
	done := s.observe("update_status")
	entry, err := s.updateStatus(ctx, id, status)
	done(err)
	return entry, err
}

func (s *service) updateStatus(ctx context.Context, id uuid.UUID, status enums.AssignmentStatus) (*AssignmentDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid assignment status %q", status)
	}

	release, err := s.locker.Acquire(ctx, lockScopeEntry, id.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	var entry *dbmodels.AssignedOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err = s.findEntry(ctx, repo, id)
		if err != nil {
			return err
		}

		from := entry.Status
		if !from.CanTransitionTo(status) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"cannot transition assignment from %s to %s", from, status)
		}

		now := time.Now().UTC()
		entry.Status = status
		switch status {
		case enums.AssignmentStatusPickedUp:
			entry.PickedUpAt = &now
		case enums.AssignmentStatusDelivered:
			entry.DeliveredAt = &now
		case enums.AssignmentStatusCancelled:
			entry.CancelledAt = &now
		}

		if err := repo.Update(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
		}

		if status == enums.AssignmentStatusDelivered {
			if err := s.completeDelivery(ctx, tx, entry, now); err != nil {
				return err
			}
		} else if status.IsTerminal() {
			if err := s.recomputeAvailability(ctx, tx, entry.RiderID, enums.ActiveAssignmentStatuses()); err != nil {
				return err
			}
		}

		s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAssignmentStatusChanged,
			AggregateType: enums.AggregateAssignment,
			AggregateID:   entry.ID,
			Version:       1,
			Data: payloads.AssignmentStatusChangedEvent{
				AssignmentID: entry.ID,
				OrderID:      entry.OrderID,
				RiderID:      entry.RiderID,
				From:         from,
				To:           status,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, entry, fmt.Sprintf("assignment moved to %s", status))
	return FromModel(entry), nil
}

func (s *service) Reassign(ctx context.Context, id, newRiderID uuid.UUID, reason string) (*AssignmentDTO, error) {
	done := s.observe("reassign")
	entry, err := s.reassign(ctx, id, newRiderID, reason)
	done(err)
	return entry, err
}

func (s *service) reassign(ctx context.Context, id, newRiderID uuid.UUID, reason string) (*AssignmentDTO, error) {
	if newRiderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new rider id required")
	}

	release, err := s.locker.Acquire(ctx, lockScopeEntry, id.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	var entry *dbmodels.AssignedOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		riderRepo := s.riderRepo.WithTx(tx)

		entry, err = s.findEntry(ctx, repo, id)
		if err != nil {
			return err
		}
		if entry.RiderID == newRiderID {
			return pkgerrors.New(pkgerrors.CodeConflict, "order is already assigned to this rider")
		}

		newRider, err := riderRepo.Find(ctx, newRiderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find rider")
		}
		if newRider == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "rider not found")
		}

		oldRiderID := entry.RiderID
		entry.RiderID = newRiderID
		if reason != "" {
			if entry.Notes != "" {
				entry.Notes += "\n"
			}
			entry.Notes += "Reassigned: " + reason
		}
		if err := repo.Update(ctx, entry); err != nil {
			if db.IsUniqueViolation(err, "uq_assigned_orders_order_rider") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already assigned to this rider")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reassign entry")
		}

		// The narrower carrying set here is inherited product behavior; the
		// terminal-transition paths recompute over the full active set.
		if err := s.recomputeAvailability(ctx, tx, oldRiderID, enums.CarryingAssignmentStatuses()); err != nil {
			return err
		}
		if err := riderRepo.SetStatus(ctx, newRiderID, enums.RiderStatusBusy, false); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark rider busy")
		}

		s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAssignmentReassigned,
			AggregateType: enums.AggregateAssignment,
			AggregateID:   entry.ID,
			Version:       1,
			Data: payloads.AssignmentReassignedEvent{
				AssignmentID: entry.ID,
				OrderID:      entry.OrderID,
				OldRiderID:   oldRiderID,
				NewRiderID:   newRiderID,
				Reason:       reason,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, entry, "assignment moved to new rider")
	return FromModel(entry), nil
}

func (s *service) AddDeliveryProof(ctx context.Context, id uuid.UUID, proof []string) (*AssignmentDTO, error) {
	done := s.observe("delivery_proof")
	entry, err := s.addDeliveryProof(ctx, id, proof)
	done(err)
	return entry, err
}

func (s *service) addDeliveryProof(ctx context.Context, id uuid.UUID, proof []string) (*AssignmentDTO, error) {
	if len(proof) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery proof required")
	}

	release, err := s.locker.Acquire(ctx, lockScopeEntry, id.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	var entry *dbmodels.AssignedOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err = s.findEntry(ctx, repo, id)
		if err != nil {
			return err
		}
		if entry.Status != enums.AssignmentStatusPickedUp {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"delivery proof requires picked-up status, assignment is %s", entry.Status)
		}

		now := time.Now().UTC()
		entry.DeliveryProof = append(entry.DeliveryProof, proof...)
		entry.Status = enums.AssignmentStatusDelivered
		entry.DeliveredAt = &now
		if err := repo.Update(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store delivery proof")
		}

		// Delivery via proof recomputes over the carrying set, matching the
		// reassign path rather than the plain terminal transition path.
		if err := s.orderSync.MarkDelivered(ctx, tx, entry.OrderID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync order delivered")
		}
		if err := s.recomputeAvailability(ctx, tx, entry.RiderID, enums.CarryingAssignmentStatuses()); err != nil {
			return err
		}
		if err := s.riderRepo.WithTx(tx).IncrementDeliveries(ctx, entry.RiderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment rider deliveries")
		}

		s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDelivered,
			AggregateType: enums.AggregateOrder,
			AggregateID:   entry.OrderID,
			Version:       1,
			Data: payloads.OrderDeliveredEvent{
				AssignmentID: entry.ID,
				OrderID:      entry.OrderID,
				RiderID:      entry.RiderID,
				UserID:       entry.UserID,
				DeliveredAt:  now,
				ProofCount:   len(entry.DeliveryProof),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, entry, "delivery proof recorded")
	return FromModel(entry), nil
}

func (s *service) VerifyPickup(ctx context.Context, id uuid.UUID, otp string) (*AssignmentDTO, error) {
	done := s.observe("verify_pickup")
	entry, err := s.verifyPickup(ctx, id, otp)
	done(err)
	return entry, err
}

func (s *service) verifyPickup(ctx context.Context, id uuid.UUID, otp string) (*AssignmentDTO, error) {
	if otp == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "otp required")
	}

	release, err := s.locker.Acquire(ctx, lockScopeEntry, id.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	var entry *dbmodels.AssignedOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err = s.findEntry(ctx, repo, id)
		if err != nil {
			return err
		}
		if entry.Status != enums.AssignmentStatusAssigned {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"pickup verification requires assigned status, assignment is %s", entry.Status)
		}

		order, err := s.orderRepo.WithTx(tx).Find(ctx, entry.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}

		if otp != pickupOTP(order.ID) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid OTP")
		}

		now := time.Now().UTC()
		entry.Status = enums.AssignmentStatusPickedUp
		entry.PickedUpAt = &now
		if err := repo.Update(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
		}
		if err := s.orderSync.MarkConfirmed(ctx, tx, entry.OrderID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync order confirmed")
		}

		s.emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPickupVerified,
			AggregateType: enums.AggregateAssignment,
			AggregateID:   entry.ID,
			Version:       1,
			Data: payloads.PickupVerifiedEvent{
				AssignmentID: entry.ID,
				OrderID:      entry.OrderID,
				RiderID:      entry.RiderID,
				PickedUpAt:   now,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logInfo(ctx, entry, "pickup verified")
	return FromModel(entry), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AssignmentDTO, error) {
	entry, err := s.findEntry(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(entry), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]AssignmentDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return FromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*AssignmentDTO, error) {
	if input.Status != nil {
		// Status changes always run through the transition guard.
		if input.Notes == nil {
			return s.UpdateStatus(ctx, id, *input.Status)
		}
	}

	release, err := s.locker.Acquire(ctx, lockScopeEntry, id.String())
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	entry, err := s.findEntry(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if input.Notes != nil {
		entry.Notes = *input.Notes
		if err := s.repo.Update(ctx, entry); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update assignment")
		}
	}
	if input.Status != nil {
		release()
		return s.UpdateStatus(ctx, id, *input.Status)
	}
	return FromModel(entry), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	done := s.observe("delete")
	err := s.delete(ctx, id)
	done(err)
	return err
}

func (s *service) delete(ctx context.Context, id uuid.UUID) error {
	release, err := s.locker.Acquire(ctx, lockScopeEntry, id.String())
	if err != nil {
		return lockError(err)
	}
	defer release()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err := s.findEntry(ctx, repo, id)
		if err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete assignment")
		}
		return s.recomputeAvailability(ctx, tx, entry.RiderID, enums.ActiveAssignmentStatuses())
	})
}

func (s *service) Stats(ctx context.Context, riderID *uuid.UUID) (*StatsResult, error) {
	counts, err := s.repo.CountByStatus(ctx, riderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate assignments")
	}
	result := &StatsResult{ByStatus: counts}
	for _, count := range counts {
		result.Total += count
	}
	return result, nil
}

func (s *service) TrackingInfo(ctx context.Context, id uuid.UUID) (*TrackingDTO, error) {
	entry, err := s.findEntry(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	tracking := &TrackingDTO{Assignment: *FromModel(entry)}

	rider, err := s.riderRepo.Find(ctx, entry.RiderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find rider")
	}
	tracking.Rider = riders.PublicFromModel(rider)

	order, err := s.orderRepo.Find(ctx, entry.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	tracking.Order = orders.FromModel(order)

	// Cancellation is intentionally absent from the public timeline.
	history := []StatusHistoryEntry{
		{Status: enums.AssignmentStatusAssigned, At: entry.AssignedAt},
	}
	if entry.PickedUpAt != nil {
		history = append(history, StatusHistoryEntry{Status: enums.AssignmentStatusPickedUp, At: *entry.PickedUpAt})
	}
	if entry.DeliveredAt != nil {
		history = append(history, StatusHistoryEntry{Status: enums.AssignmentStatusDelivered, At: *entry.DeliveredAt})
	}
	tracking.StatusHistory = history
	return tracking, nil
}

// completeDelivery applies the side effects shared by every delivered
// transition: order sync, availability over the full active set, and the
// rider's lifetime delivery counter.
func (s *service) completeDelivery(ctx context.Context, tx *gorm.DB, entry *dbmodels.AssignedOrder, now time.Time) error {
	if err := s.orderSync.MarkDelivered(ctx, tx, entry.OrderID, now); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync order delivered")
	}
	if err := s.recomputeAvailability(ctx, tx, entry.RiderID, enums.ActiveAssignmentStatuses()); err != nil {
		return err
	}
	if err := s.riderRepo.WithTx(tx).IncrementDeliveries(ctx, entry.RiderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment rider deliveries")
	}

	s.emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderDelivered,
		AggregateType: enums.AggregateOrder,
		AggregateID:   entry.OrderID,
		Version:       1,
		Data: payloads.OrderDeliveredEvent{
			AssignmentID: entry.ID,
			OrderID:      entry.OrderID,
			RiderID:      entry.RiderID,
			UserID:       entry.UserID,
			DeliveredAt:  now,
			ProofCount:   len(entry.DeliveryProof),
		},
	})
	return nil
}

// recomputeAvailability re-derives the rider's availability from their open
// ledger entries over the given status set.
func (s *service) recomputeAvailability(ctx context.Context, tx *gorm.DB, riderID uuid.UUID, statuses []enums.AssignmentStatus) error {
	open, err := s.repo.WithTx(tx).CountForRider(ctx, riderID, statuses)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count rider assignments")
	}

	status := enums.RiderStatusBusy
	available := false
	if open == 0 {
		status = enums.RiderStatusAvailable
		available = true
	}
	if err := s.riderRepo.WithTx(tx).SetStatus(ctx, riderID, status, available); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update rider availability")
	}
	return nil
}

func (s *service) findEntry(ctx context.Context, repo Repository, id uuid.UUID) (*dbmodels.AssignedOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	entry, err := repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find assignment")
	}
	if entry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
	}
	return entry, nil
}

// emit queues an outbox event; failures are logged and never fail the
// workflow call.
func (s *service) emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) {
	if err := s.outbox.Emit(ctx, tx, event); err != nil && s.logg != nil {
		s.logg.Error(ctx, "queue outbox event", err)
	}
}

func (s *service) observe(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		s.metrics.ObserveDuration(operation, time.Since(start))
		if err != nil {
			s.metrics.IncFailure(operation)
			return
		}
		s.metrics.IncSuccess(operation)
	}
}

func (s *service) logInfo(ctx context.Context, entry *dbmodels.AssignedOrder, msg string) {
	if s.logg == nil || entry == nil {
		return
	}
	logCtx := s.logg.WithAssignmentID(ctx, entry.ID.String())
	logCtx = s.logg.WithOrderID(logCtx, entry.OrderID.String())
	logCtx = s.logg.WithRiderID(logCtx, entry.RiderID.String())
	s.logg.Info(logCtx, msg)
}

// pickupOTP derives the pickup code from the order id. Placeholder scheme
// carried over until real OTP issuance exists.
func pickupOTP(orderID uuid.UUID) string {
	str := orderID.String()
	return str[len(str)-4:]
}

func lockError(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "assignment is being modified, retry shortly")
}
