package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/pagination"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  target_type TEXT NOT NULL,
  target_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func insertReview(t *testing.T, repo Repository, target enums.ReviewTarget, targetID uuid.UUID, rating int) *models.Review {
	t.Helper()
	review := &models.Review{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		TargetType: target,
		TargetID:   targetID,
		Rating:     rating,
	}
	require.NoError(t, repo.Create(context.Background(), review))
	return review
}

func TestReviewsRepoCreateAndFind(t *testing.T) {
	repo := NewRepository(setupReviewsTestDB(t))
	ctx := context.Background()

	comment := "quick and careful"
	review := &models.Review{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		TargetType: enums.ReviewTargetRider,
		TargetID:   uuid.New(),
		Rating:     5,
		Comment:    &comment,
	}
	require.NoError(t, repo.Create(ctx, review))

	found, err := repo.Find(ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, enums.ReviewTargetRider, found.TargetType)
	assert.Equal(t, 5, found.Rating)
	require.NotNil(t, found.Comment)
	assert.Equal(t, comment, *found.Comment)

	missing, err := repo.Find(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReviewsRepoListByTarget(t *testing.T) {
	repo := NewRepository(setupReviewsTestDB(t))
	ctx := context.Background()
	storeID := uuid.New()

	for _, rating := range []int{5, 3, 4} {
		insertReview(t, repo, enums.ReviewTargetStore, storeID, rating)
	}
	insertReview(t, repo, enums.ReviewTargetStore, uuid.New(), 1)
	insertReview(t, repo, enums.ReviewTargetRider, storeID, 2)

	rows, total, err := repo.ListByTarget(ctx, enums.ReviewTargetStore, storeID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 3)

	paged, total, err := repo.ListByTarget(ctx, enums.ReviewTargetStore, storeID, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, paged, 1)
}

func TestReviewsRepoAggregate(t *testing.T) {
	repo := NewRepository(setupReviewsTestDB(t))
	ctx := context.Background()
	riderID := uuid.New()

	for _, rating := range []int{5, 4, 4} {
		insertReview(t, repo, enums.ReviewTargetRider, riderID, rating)
	}
	insertReview(t, repo, enums.ReviewTargetStore, riderID, 1)

	avg, count, err := repo.AggregateForTarget(ctx, enums.ReviewTargetRider, riderID)
	require.NoError(t, err)
	assert.InDelta(t, 4.333, avg, 0.001)
	assert.Equal(t, 3, count)

	avg, count, err = repo.AggregateForTarget(ctx, enums.ReviewTargetRider, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)
}

func TestReviewsRepoDelete(t *testing.T) {
	repo := NewRepository(setupReviewsTestDB(t))
	ctx := context.Background()

	review := insertReview(t, repo, enums.ReviewTargetOrder, uuid.New(), 3)

	deleted, err := repo.Delete(ctx, review.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, review.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
