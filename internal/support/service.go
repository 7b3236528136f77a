package support

import (
	"context"
	"fmt"
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
	"github.com/velomart/velomart-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines support ticket operations.
type Service interface {
	Create(ctx context.Context, input CreateTicketInput) (*TicketDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TicketDTO, error)
	List(ctx context.Context, filter ListFilter) ([]TicketDTO, pagination.Meta, error)
	Reply(ctx context.Context, id uuid.UUID, input ReplyInput) (*TicketDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTicketInput) (*TicketDTO, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	logg   *logger.Logger
}

// NewService wires support ticket dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "support repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if outboxSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outboxSvc, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateTicketInput) (*TicketDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket user id required")
	}
	if input.Subject == "" || input.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket subject and message required")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.TicketPriorityMedium
	}
	if !priority.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid ticket priority %q", priority)
	}

	ticket := &dbmodels.SupportTicket{
		UserID:   input.UserID,
		Subject:  input.Subject,
		Message:  input.Message,
		Status:   enums.TicketStatusOpen,
		Priority: priority,
		Replies:  types.TicketReplies{},
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		seq, err := repo.NextTicketNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate ticket number")
		}
		ticket.TicketNumber = formatTicketNumber(seq)

		if err := repo.Create(ctx, ticket); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTicketCreated,
			AggregateType: enums.AggregateTicket,
			AggregateID:   ticket.ID,
			Version:       1,
			Data: payloads.TicketCreatedEvent{
				TicketID:     ticket.ID,
				TicketNumber: ticket.TicketNumber,
				UserID:       ticket.UserID,
				Priority:     ticket.Priority,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		lctx := s.logg.WithFields(ctx, map[string]any{
			"ticket_id":     ticket.ID.String(),
			"ticket_number": ticket.TicketNumber,
		})
		s.logg.Info(lctx, "support ticket created")
	}
	return FromModel(ticket), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(ticket), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]TicketDTO, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tickets")
	}
	return FromModels(rows), pagination.MetaFor(filter.Page, total), nil
}

func (s *service) Reply(ctx context.Context, id uuid.UUID, input ReplyInput) (*TicketDTO, error) {
	if input.Author == "" || input.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply author and message required")
	}

	var ticket *dbmodels.SupportTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := s.find(ctx, repo, id)
		if err != nil {
			return err
		}
		if found.Status == enums.TicketStatusClosed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot reply to a closed ticket")
		}

		found.Replies = append(found.Replies, types.TicketReply{
			Author:  input.Author,
			Message: input.Message,
			At:      time.Now(),
		})
		if found.Status == enums.TicketStatusOpen {
			found.Status = enums.TicketStatusInProgress
		}
		if err := repo.Update(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ticket reply")
		}
		ticket = found

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTicketUpdated,
			AggregateType: enums.AggregateTicket,
			AggregateID:   found.ID,
			Version:       1,
			Data: payloads.TicketUpdatedEvent{
				TicketID:     found.ID,
				TicketNumber: found.TicketNumber,
				Status:       found.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return FromModel(ticket), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTicketInput) (*TicketDTO, error) {
	if input.Status == nil && input.Priority == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid ticket status %q", *input.Status)
	}
	if input.Priority != nil && !input.Priority.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid ticket priority %q", *input.Priority)
	}

	var ticket *dbmodels.SupportTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		found, err := s.find(ctx, repo, id)
		if err != nil {
			return err
		}

		statusChanged := false
		if input.Status != nil && *input.Status != found.Status {
			found.Status = *input.Status
			statusChanged = true
			if *input.Status == enums.TicketStatusResolved || *input.Status == enums.TicketStatusClosed {
				if found.ResolvedAt == nil {
					now := time.Now()
					found.ResolvedAt = &now
				}
			} else {
				found.ResolvedAt = nil
			}
		}
		if input.Priority != nil {
			found.Priority = *input.Priority
		}

		if err := repo.Update(ctx, found); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ticket")
		}
		ticket = found

		if !statusChanged {
			return nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTicketUpdated,
			AggregateType: enums.AggregateTicket,
			AggregateID:   found.ID,
			Version:       1,
			Data: payloads.TicketUpdatedEvent{
				TicketID:     found.ID,
				TicketNumber: found.TicketNumber,
				Status:       found.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return FromModel(ticket), nil
}

func (s *service) find(ctx context.Context, repo Repository, id uuid.UUID) (*dbmodels.SupportTicket, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id required")
	}
	ticket, err := repo.Find(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find ticket")
	}
	if ticket == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	return ticket, nil
}

func formatTicketNumber(seq int64) string {
	return fmt.Sprintf("TKT-%06d", seq)
}
