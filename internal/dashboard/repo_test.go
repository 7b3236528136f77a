package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velomart/velomart-backend/pkg/enums"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS riders (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  vehicle_type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'offline',
  is_available INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  total_deliveries INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  vertical TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  rating REAL NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'cod',
  subtotal_cents INTEGER NOT NULL,
  delivery_cents INTEGER NOT NULL DEFAULT 0,
  discount_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL,
  delivery_address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func seedDashboardRow(t *testing.T, conn *gorm.DB, query string, args ...any) {
	t.Helper()
	require.NoError(t, conn.Exec(query, args...).Error)
}

func TestDashboardRepoCounts(t *testing.T) {
	conn := setupDashboardTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedDashboardRow(t, conn, `INSERT INTO users (id, email, password_hash, name) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), "a@example.com", "x", "A")
	seedDashboardRow(t, conn, `INSERT INTO users (id, email, password_hash, name) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), "b@example.com", "x", "B")

	seedDashboardRow(t, conn, `INSERT INTO riders (id, name, phone, password_hash, vehicle_type, status) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), "R1", "+1", "x", "bike", string(enums.RiderStatusAvailable))
	seedDashboardRow(t, conn, `INSERT INTO riders (id, name, phone, password_hash, vehicle_type, status) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), "R2", "+2", "x", "car", string(enums.RiderStatusBusy))
	seedDashboardRow(t, conn, `INSERT INTO riders (id, name, phone, password_hash, vehicle_type, status) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), "R3", "+3", "x", "bike", string(enums.RiderStatusOffline))

	users, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, users)

	riders, err := repo.CountRiders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, riders)

	active, err := repo.CountActiveRiders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, active)
}

func TestDashboardRepoStoreBreakdown(t *testing.T) {
	conn := setupDashboardTestDB(t)
	repo := NewRepository(conn)

	seedDashboardRow(t, conn, `INSERT INTO stores (id, vertical, name, address) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), string(enums.StoreVerticalGrocery), "G1", "{}")
	seedDashboardRow(t, conn, `INSERT INTO stores (id, vertical, name, address) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), string(enums.StoreVerticalGrocery), "G2", "{}")
	seedDashboardRow(t, conn, `INSERT INTO stores (id, vertical, name, address) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), string(enums.StoreVerticalPharmacy), "P1", "{}")

	breakdown, err := repo.CountStoresByVertical(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, breakdown[enums.StoreVerticalGrocery])
	assert.EqualValues(t, 1, breakdown[enums.StoreVerticalPharmacy])
	assert.NotContains(t, breakdown, enums.StoreVerticalRestaurant)
}

func TestDashboardRepoOrdersAndRevenue(t *testing.T) {
	conn := setupDashboardTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Now()
	insertOrder := func(status enums.OrderStatus, totalCents int, createdAt time.Time) {
		seedDashboardRow(t, conn,
			`INSERT INTO orders (id, user_id, store_id, status, subtotal_cents, total_cents, delivery_address, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), uuid.NewString(), uuid.NewString(), string(status), totalCents, totalCents, "{}", createdAt)
	}

	insertOrder(enums.OrderStatusDelivered, 1500, now)
	insertOrder(enums.OrderStatusDelivered, 2500, now.Add(-48*time.Hour))
	insertOrder(enums.OrderStatusCancelled, 9000, now)

	total, err := repo.CountOrders(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	today, err := repo.CountOrdersSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, today)

	revenue, err := repo.DeliveredRevenueCents(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4000, revenue)
}

func TestDashboardRepoRevenueEmpty(t *testing.T) {
	repo := NewRepository(setupDashboardTestDB(t))

	revenue, err := repo.DeliveredRevenueCents(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, revenue)
}
