package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/internal/cart"
	"github.com/freshkart-dev/freshkart-backend/internal/catalog"
	"github.com/freshkart-dev/freshkart-backend/internal/pricing"
	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	"github.com/freshkart-dev/freshkart-backend/pkg/logger"
	"github.com/freshkart-dev/freshkart-backend/pkg/types"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT,
  description TEXT,
  category TEXT NOT NULL,
  image_url TEXT,
  price_cents INTEGER NOT NULL,
  discount_percent REAL NOT NULL DEFAULT 0,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  available_qty INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total_amount_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_addition_cents INTEGER NOT NULL,
  discount_at_addition REAL NOT NULL DEFAULT 0,
  subtotal_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  delivery_address TEXT,
  subtotal_cents INTEGER NOT NULL,
  shipping_fee_cents INTEGER NOT NULL DEFAULT 0,
  total_amount_cents INTEGER NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_id TEXT,
  order_status TEXT NOT NULL DEFAULT 'pending',
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  created_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type orderTestEnv struct {
	db      *gorm.DB
	catalog *catalog.Repository
	carts   cart.Service
	orders  Service
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()

	db := setupOrdersTestDB(t)
	tx := &testTxRunner{db: db}
	catalogRepo := catalog.NewRepository(db)

	cartSvc, err := cart.NewService(cart.NewRepository(db), catalogRepo, tx)
	require.NoError(t, err)

	engine, err := pricing.NewEngine(catalogRepo)
	require.NoError(t, err)

	log := logger.New(logger.Options{ServiceName: "orders-test", Level: zerolog.InfoLevel, Output: io.Discard})

	svc, err := NewService(NewRepository(db), catalogRepo, cartSvc, engine, tx, log, nil, 500)
	require.NoError(t, err)

	return &orderTestEnv{db: db, catalog: catalogRepo, carts: cartSvc, orders: svc}
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceCents int64, discount float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:              uuid.New(),
		Name:            name,
		Category:        enums.ProductCategoryDairy,
		PriceCents:      priceCents,
		DiscountPercent: discount,
		StockQty:        stock,
		AvailableQty:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func validAddress() types.DeliveryAddress {
	return types.DeliveryAddress{
		RecipientName: "Asha Rao",
		MobileNumber:  "+91-98765-43210",
		StreetAddress: "14 Lakeview Road",
		City:          "Bengaluru",
		PostalCode:    "560001",
	}
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) (int, int) {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.StockQty, product.AvailableQty
}
