package notifications

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	pkgerrors "github.com/velomart/velomart-backend/pkg/errors"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

type stubNotificationRepo struct {
	notifications map[uuid.UUID]*models.Notification
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{notifications: map[uuid.UUID]*models.Notification{}}
}

func (s *stubNotificationRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	copied := *notification
	s.notifications[notification.ID] = &copied
	return nil
}

func (s *stubNotificationRepo) Find(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	notification, ok := s.notifications[id]
	if !ok {
		return nil, nil
	}
	copied := *notification
	return &copied, nil
}

func (s *stubNotificationRepo) ListForUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if cursor != nil && !n.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		rows = append(rows, *n)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID || n.ReadAt != nil {
		return false, nil
	}
	now := time.Now()
	n.ReadAt = &now
	return true, nil
}

func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	var marked int64
	now := time.Now()
	for _, n := range s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &now
			marked++
		}
	}
	return marked, nil
}

func (s *stubNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected application error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func newNotificationService(t *testing.T) (Service, *stubNotificationRepo) {
	t.Helper()
	repo := newStubNotificationRepo()
	svc, err := NewService(repo, nil)
	require.NoError(t, err)
	return svc, repo
}

func seedFeed(t *testing.T, repo *stubNotificationRepo, userID uuid.UUID, count int) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.Notification{
			UserID:    userID,
			Type:      enums.NotificationTypeOrderPlaced,
			Title:     "Order placed",
			Message:   "We received your order.",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestNotifyValidatesInput(t *testing.T) {
	svc, _ := newNotificationService(t)
	ctx := context.Background()

	_, err := svc.Notify(ctx, uuid.Nil, enums.NotificationTypeOrderPlaced, "t", "m", nil)
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Notify(ctx, uuid.New(), enums.NotificationType("carrier_pigeon"), "t", "m", nil)
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Notify(ctx, uuid.New(), enums.NotificationTypeOrderPlaced, "", "m", nil)
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestFeedPaginatesWithCursor(t *testing.T) {
	svc, repo := newNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()
	seedFeed(t, repo, userID, 5)

	page, err := svc.Feed(ctx, userID, "", 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.NotEmpty(t, page.NextCursor)
	assert.EqualValues(t, 5, page.UnreadCount)

	second, err := svc.Feed(ctx, userID, page.NextCursor, 3)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Empty(t, second.NextCursor)

	assert.True(t, page.Items[0].CreatedAt.After(second.Items[0].CreatedAt))
}

func TestFeedRejectsBadCursor(t *testing.T) {
	svc, _ := newNotificationService(t)
	_, err := svc.Feed(context.Background(), uuid.New(), "not-base64!", 10)
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestMarkReadIdempotent(t *testing.T) {
	svc, repo := newNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	notification := &models.Notification{
		UserID:  userID,
		Type:    enums.NotificationTypeOrderDelivered,
		Title:   "Order delivered",
		Message: "Enjoy!",
	}
	require.NoError(t, repo.Create(ctx, notification))

	require.NoError(t, svc.MarkRead(ctx, notification.ID, userID))
	require.NoError(t, svc.MarkRead(ctx, notification.ID, userID))

	expectCode(t, svc.MarkRead(ctx, uuid.New(), userID), pkgerrors.CodeNotFound)
	expectCode(t, svc.MarkRead(ctx, notification.ID, uuid.New()), pkgerrors.CodeNotFound)
}

func TestMarkAllRead(t *testing.T) {
	svc, repo := newNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()
	seedFeed(t, repo, userID, 4)

	marked, err := svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, marked)

	page, err := svc.Feed(ctx, userID, "", 10)
	require.NoError(t, err)
	assert.Zero(t, page.UnreadCount)
}
