package stores

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
	"github.com/velomart/velomart-backend/pkg/types"
)

func setupStoresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	storesSchema := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  vertical TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  phone TEXT,
  address TEXT NOT NULL,
  open_hours TEXT,
  rating REAL NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	itemsSchema := `
CREATE TABLE IF NOT EXISTS store_items (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT,
  price_cents INTEGER NOT NULL,
  in_stock INTEGER NOT NULL DEFAULT 1,
  attributes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(storesSchema).Error)
	require.NoError(t, conn.Exec(itemsSchema).Error)
	return conn
}

func insertStore(t *testing.T, repo Repository, vertical enums.StoreVertical, name string) *models.Store {
	t.Helper()
	store := &models.Store{
		ID:       uuid.New(),
		Vertical: vertical,
		Name:     name,
		Address:  types.Location{Latitude: 64.1466, Longitude: -21.9426, Address: "Laugavegur 1, Reykjavik"},
		IsActive: true,
	}
	require.NoError(t, repo.Create(context.Background(), store))
	return store
}

func TestStoresRepoListByVertical(t *testing.T) {
	conn := setupStoresTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	insertStore(t, repo, enums.StoreVerticalRestaurant, "Noodle House")
	insertStore(t, repo, enums.StoreVerticalRestaurant, "Pizza Corner")
	insertStore(t, repo, enums.StoreVerticalPharmacy, "City Pharmacy")

	vertical := enums.StoreVerticalRestaurant
	rows, total, err := repo.List(ctx, ListFilter{Vertical: &vertical})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, ListFilter{Search: "pharmacy"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "City Pharmacy", rows[0].Name)
}

func TestStoresRepoUpdateRating(t *testing.T) {
	conn := setupStoresTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	store := insertStore(t, repo, enums.StoreVerticalGrocery, "Corner Market")
	require.NoError(t, repo.UpdateRating(ctx, store.ID, 4.5, 12))

	found, err := repo.Find(ctx, store.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.InDelta(t, 4.5, found.Rating, 0.001)
	assert.Equal(t, 12, found.RatingCount)
}

func TestStoresRepoItems(t *testing.T) {
	conn := setupStoresTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	store := insertStore(t, repo, enums.StoreVerticalClothing, "Thread & Co")
	category := "outerwear"
	item := &models.StoreItem{
		ID:         uuid.New(),
		StoreID:    store.ID,
		Name:       "Wool Jacket",
		Category:   &category,
		PriceCents: 12900,
		InStock:    true,
	}
	require.NoError(t, repo.CreateItem(ctx, item))
	require.NoError(t, repo.CreateItem(ctx, &models.StoreItem{
		ID:         uuid.New(),
		StoreID:    store.ID,
		Name:       "Rain Coat",
		PriceCents: 9900,
		InStock:    false,
	}))

	rows, total, err := repo.ListItems(ctx, ItemFilter{StoreID: &store.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	inStock := true
	rows, total, err = repo.ListItems(ctx, ItemFilter{StoreID: &store.ID, InStock: &inStock})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Wool Jacket", rows[0].Name)

	rows, total, err = repo.ListItems(ctx, ItemFilter{Search: "coat"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	item.PriceCents = 11900
	require.NoError(t, repo.UpdateItem(ctx, item))
	found, err := repo.FindItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 11900, found.PriceCents)

	deleted, err := repo.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
