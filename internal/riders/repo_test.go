package riders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/db"
	"github.com/velomart/velomart-backend/pkg/db/models"
	"github.com/velomart/velomart-backend/pkg/enums"
	"github.com/velomart/velomart-backend/pkg/types"
)

func setupRidersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS riders (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  email TEXT,
  password_hash TEXT NOT NULL,
  vehicle_type TEXT NOT NULL,
  vehicle_number TEXT,
  status TEXT NOT NULL DEFAULT 'offline',
  is_available INTEGER NOT NULL DEFAULT 0,
  current_location TEXT,
  rating REAL NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  total_deliveries INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func insertTestRider(t *testing.T, repo Repository, phone string, status enums.RiderStatus, available bool) *models.Rider {
	t.Helper()
	rider := &models.Rider{
		ID:           uuid.New(),
		Name:         "Test Rider",
		Phone:        phone,
		PasswordHash: "x",
		VehicleType:  enums.VehicleTypeBike,
		Status:       status,
		IsAvailable:  available,
	}
	require.NoError(t, repo.Create(context.Background(), rider))
	return rider
}

func TestRidersRepoUniquePhone(t *testing.T) {
	repo := NewRepository(setupRidersTestDB(t))

	insertTestRider(t, repo, "+3545550001", enums.RiderStatusOffline, false)

	dup := &models.Rider{
		ID:           uuid.New(),
		Name:         "Other",
		Phone:        "+3545550001",
		PasswordHash: "x",
		VehicleType:  enums.VehicleTypeCar,
	}
	err := repo.Create(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRidersRepoListFilters(t *testing.T) {
	repo := NewRepository(setupRidersTestDB(t))
	ctx := context.Background()

	insertTestRider(t, repo, "+1", enums.RiderStatusAvailable, true)
	insertTestRider(t, repo, "+2", enums.RiderStatusBusy, false)
	insertTestRider(t, repo, "+3", enums.RiderStatusAvailable, true)

	available := true
	rows, total, err := repo.List(ctx, ListFilter{Available: &available})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	busy := enums.RiderStatusBusy
	rows, total, err = repo.List(ctx, ListFilter{Status: &busy})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "+2", rows[0].Phone)
}

func TestRidersRepoSetStatusAndCounters(t *testing.T) {
	repo := NewRepository(setupRidersTestDB(t))
	ctx := context.Background()

	rider := insertTestRider(t, repo, "+3545550002", enums.RiderStatusOffline, false)

	require.NoError(t, repo.SetStatus(ctx, rider.ID, enums.RiderStatusAvailable, true))
	require.NoError(t, repo.IncrementDeliveries(ctx, rider.ID))
	require.NoError(t, repo.IncrementDeliveries(ctx, rider.ID))
	require.NoError(t, repo.UpdateRating(ctx, rider.ID, 4.5, 2))

	found, err := repo.Find(ctx, rider.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, enums.RiderStatusAvailable, found.Status)
	assert.True(t, found.IsAvailable)
	assert.Equal(t, 2, found.TotalDeliveries)
	assert.InDelta(t, 4.5, found.Rating, 0.001)
	assert.Equal(t, 2, found.RatingCount)
}

func TestRidersRepoLocationRoundtrip(t *testing.T) {
	repo := NewRepository(setupRidersTestDB(t))
	ctx := context.Background()

	rider := insertTestRider(t, repo, "+3545550003", enums.RiderStatusAvailable, true)

	loc := types.Location{Latitude: 64.1466, Longitude: -21.9426, Address: "Laugavegur 1, Reykjavik"}
	require.NoError(t, repo.UpdateLocation(ctx, rider.ID, loc))

	found, err := repo.Find(ctx, rider.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CurrentLocation)
	assert.InDelta(t, 64.1466, found.CurrentLocation.Latitude, 0.0001)
	assert.Equal(t, "Laugavegur 1, Reykjavik", found.CurrentLocation.Address)
}

func TestRidersRepoDelete(t *testing.T) {
	repo := NewRepository(setupRidersTestDB(t))
	ctx := context.Background()

	rider := insertTestRider(t, repo, "+3545550004", enums.RiderStatusOffline, false)

	deleted, err := repo.Delete(ctx, rider.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, rider.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
