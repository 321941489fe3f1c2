package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
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
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, name string, priceCents int64, discount float64, stock int) *models.Product {
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
