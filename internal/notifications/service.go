package notifications

import (
	"context"

	"github.com/google/uuid"

	dbmodels "github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

// Service defines the user-facing notification feed operations.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, typ enums.NotificationType, title, message string, link *string) (*NotificationDTO, error)
	Feed(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*FeedPage, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService wires notification dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, typ enums.NotificationType, title, message string, link *string) (*NotificationDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification user id required")
	}
	if !typ.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification type %q", typ)
	}
	if title == "" || message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification title and message required")
	}

	notification := &dbmodels.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return FromModel(notification), nil
}

func (s *service) Feed(ctx context.Context, userID uuid.UUID, cursor string, limit int) (*FeedPage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	pageSize := pagination.NormalizeLimit(limit)
	rows, err := s.repo.ListForUser(ctx, userID, parsed, pageSize+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	var next string
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	return &FeedPage{
		Items:       FromModels(rows),
		NextCursor:  next,
		UnreadCount: unread,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if id == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id and user id required")
	}
	marked, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !marked {
		notification, findErr := s.repo.Find(ctx, id)
		if findErr == nil && notification != nil && notification.UserID == userID {
			// Already read, treat as idempotent success.
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	marked, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark all notifications read")
	}
	if s.logg != nil && marked > 0 {
		lctx := s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "marked": marked})
		s.logg.Info(lctx, "notifications marked read")
	}
	return marked, nil
}
