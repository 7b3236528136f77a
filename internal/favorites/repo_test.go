package favorites

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
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  vertical TEXT NOT NULL,
  store_id TEXT,
  item_id TEXT,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func insertTestFavorite(t *testing.T, repo Repository, userID uuid.UUID, kind enums.FavoriteKind, vertical enums.StoreVertical, storeID, itemID *uuid.UUID) *models.Favorite {
	t.Helper()
	favorite := &models.Favorite{
		ID:       uuid.New(),
		UserID:   userID,
		Kind:     kind,
		Vertical: vertical,
		StoreID:  storeID,
		ItemID:   itemID,
	}
	require.NoError(t, repo.Create(context.Background(), favorite))
	return favorite
}

func TestFavoritesRepoFindTarget(t *testing.T) {
	repo := NewRepository(setupFavoritesTestDB(t))
	ctx := context.Background()

	userID := uuid.New()
	storeID := uuid.New()
	itemID := uuid.New()
	insertTestFavorite(t, repo, userID, enums.FavoriteKindStore, enums.StoreVerticalGrocery, &storeID, nil)
	insertTestFavorite(t, repo, userID, enums.FavoriteKindItem, enums.StoreVerticalGrocery, nil, &itemID)

	found, err := repo.FindTarget(ctx, userID, &storeID, nil)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, enums.FavoriteKindStore, found.Kind)

	found, err = repo.FindTarget(ctx, userID, nil, &itemID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, enums.FavoriteKindItem, found.Kind)

	other := uuid.New()
	found, err = repo.FindTarget(ctx, other, &storeID, nil)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindTarget(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestFavoritesRepoListFilters(t *testing.T) {
	repo := NewRepository(setupFavoritesTestDB(t))
	ctx := context.Background()

	userID := uuid.New()
	storeA := uuid.New()
	storeB := uuid.New()
	itemID := uuid.New()
	insertTestFavorite(t, repo, userID, enums.FavoriteKindStore, enums.StoreVerticalGrocery, &storeA, nil)
	insertTestFavorite(t, repo, userID, enums.FavoriteKindStore, enums.StoreVerticalPharmacy, &storeB, nil)
	insertTestFavorite(t, repo, userID, enums.FavoriteKindItem, enums.StoreVerticalGrocery, nil, &itemID)

	rows, total, err := repo.List(ctx, ListFilter{UserID: userID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 3)

	kind := enums.FavoriteKindStore
	rows, total, err = repo.List(ctx, ListFilter{UserID: userID, Kind: &kind})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	vertical := enums.StoreVerticalGrocery
	rows, total, err = repo.List(ctx, ListFilter{UserID: userID, Vertical: &vertical})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	rows, total, err = repo.List(ctx, ListFilter{UserID: uuid.New()})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, rows)
}

func TestFavoritesRepoDeleteScopedToUser(t *testing.T) {
	repo := NewRepository(setupFavoritesTestDB(t))
	ctx := context.Background()

	userID := uuid.New()
	storeID := uuid.New()
	favorite := insertTestFavorite(t, repo, userID, enums.FavoriteKindStore, enums.StoreVerticalRestaurant, &storeID, nil)

	deleted, err := repo.Delete(ctx, favorite.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, favorite.ID, userID)
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := repo.Find(ctx, favorite.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
