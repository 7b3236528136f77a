package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/outbox"
)

const notificationsConsumerName = "notifications-worker"

// EventHandler processes one decoded domain event.
type EventHandler interface {
	Handle(ctx context.Context, eventType enums.OutboxEventType, version int, payload json.RawMessage) error
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Service fans messages from the configured subscriptions into the
// notification handler while honoring Redis idempotency markers.
type Service struct {
	subscriptions []*gcppubsub.Subscriber
	handler       EventHandler
	manager       idempotencyChecker
	logg          *logger.Logger
}

func NewService(subscriptions []*gcppubsub.Subscriber, handler EventHandler, manager idempotencyChecker, logg *logger.Logger) (*Service, error) {
	active := make([]*gcppubsub.Subscriber, 0, len(subscriptions))
	for _, sub := range subscriptions {
		if sub != nil {
			active = append(active, sub)
		}
	}
	if len(active) == 0 {
		return nil, errors.New("at least one subscription is required")
	}
	if handler == nil {
		return nil, errors.New("event handler is required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}

	return &Service{
		subscriptions: active,
		handler:       handler,
		manager:       manager,
		logg:          logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run consumes all subscriptions until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, sub := range s.subscriptions {
		wg.Add(1)
		go func(sub *gcppubsub.Subscriber) {
			defer wg.Done()
			err := sub.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
				if s.process(innerCtx, msg).nack {
					msg.Nack()
					return
				}
				msg.Ack()
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(sub)
	}
	wg.Wait()

	if errs != nil {
		return errs
	}
	return ctx.Err()
}

func (s *Service) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{"message_id": msg.ID}

	eventTypeRaw := strings.TrimSpace(msg.Attributes["event_type"])
	eventType, err := enums.ParseOutboxEventType(eventTypeRaw)
	if err != nil {
		fields["event_type"] = eventTypeRaw
		s.logg.Warn(s.logg.WithFields(ctx, fields), "unknown event type, dropping message")
		return processResult{}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		fields["error"] = err.Error()
		s.logg.Warn(s.logg.WithFields(ctx, fields), "invalid payload envelope")
		return processResult{}
	}

	fields["event_id"] = envelope.EventID
	fields["event_type"] = eventType
	fields["event_version"] = envelope.Version
	fields["occurred_at"] = envelope.OccurredAt.Format(time.RFC3339Nano)
	logCtx := s.logg.WithFields(ctx, fields)

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		s.logg.Warn(logCtx, "invalid event id")
		return processResult{}
	}

	already, err := s.manager.CheckAndMarkProcessed(logCtx, notificationsConsumerName, eventID)
	if err != nil {
		s.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		s.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	if err := s.handler.Handle(logCtx, eventType, envelope.Version, envelope.Data); err != nil {
		s.logg.Error(logCtx, "handler error", err)
		if delErr := s.manager.Delete(logCtx, notificationsConsumerName, eventID); delErr != nil {
			s.logg.Error(logCtx, fmt.Sprintf("failed to clear idempotency marker for %s", eventID), delErr)
		}
		return processResult{nack: true}
	}

	s.logg.Info(logCtx, "event handled")
	return processResult{}
}
