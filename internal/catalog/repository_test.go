package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/pagination"
)

func TestDecrementStock(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	milk := newProduct(t, db, "Whole Milk 1L", 6500, 0, 5)
	bread := newProduct(t, db, "Multigrain Bread", 4200, 10, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).DecrementStock(ctx, []StockDelta{
			{ProductID: milk.ID, Qty: 3},
			{ProductID: bread.ID, Qty: 2},
		})
	})
	require.NoError(t, err)

	var gotMilk, gotBread models.Product
	require.NoError(t, db.First(&gotMilk, "id = ?", milk.ID).Error)
	require.NoError(t, db.First(&gotBread, "id = ?", bread.ID).Error)
	assert.Equal(t, 2, gotMilk.StockQty)
	assert.Equal(t, 2, gotMilk.AvailableQty)
	assert.Equal(t, 0, gotBread.StockQty)
	assert.Equal(t, 0, gotBread.AvailableQty)
}

func TestDecrementStockConflictRollsBackBatch(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	milk := newProduct(t, db, "Whole Milk 1L", 6500, 0, 5)
	eggs := newProduct(t, db, "Free Range Eggs", 8900, 0, 1)

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).DecrementStock(ctx, []StockDelta{
			{ProductID: milk.ID, Qty: 2},
			{ProductID: eggs.ID, Qty: 4},
		})
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// Conflict aborts the whole batch: the milk decrement must be undone too.
	var gotMilk models.Product
	require.NoError(t, db.First(&gotMilk, "id = ?", milk.ID).Error)
	assert.Equal(t, 5, gotMilk.StockQty)
}

func TestDecrementStockMissingProduct(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	err := repo.DecrementStock(context.Background(), []StockDelta{{ProductID: uuid.New(), Qty: 1}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestDecrementStockClampsAvailable(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	// Drifted listing: physical stock 5 but only 2 marked available.
	product := newProduct(t, db, "Basmati Rice 5kg", 42000, 0, 5)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("available_qty", 2).Error)

	require.NoError(t, repo.DecrementStock(ctx, []StockDelta{{ProductID: product.ID, Qty: 4}}))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 1, got.StockQty)
	// available_qty never goes below zero.
	assert.Equal(t, 0, got.AvailableQty)
}

func TestRestock(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	product := newProduct(t, db, "Oat Cookies", 3600, 0, 3)
	require.NoError(t, repo.DecrementStock(ctx, []StockDelta{{ProductID: product.ID, Qty: 3}}))
	require.NoError(t, repo.Restock(ctx, []StockDelta{{ProductID: product.ID, Qty: 3}}))

	var got models.Product
	require.NoError(t, db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 3, got.StockQty)
	assert.Equal(t, 3, got.AvailableQty)
}

func TestCheckAvailability(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	product := newProduct(t, db, "Greek Yogurt", 5200, 0, 4)

	ok, err := repo.CheckAvailability(ctx, product.ID, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CheckAvailability(ctx, product.ID, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.CheckAvailability(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.CheckAvailability(ctx, product.ID, 0)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestFindByIDs(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	a := newProduct(t, db, "Almonds 500g", 24900, 5, 10)
	b := newProduct(t, db, "Cashews 500g", 31900, 0, 10)

	byID, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, a.Name, byID[a.ID].Name)
	assert.Equal(t, b.Name, byID[b.ID].Name)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListPagination(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	now := time.Now().UTC()
	names := []string{"Paneer 200g", "Butter 100g", "Cheddar Slices"}
	for i, name := range names {
		product := &models.Product{
			ID:         uuid.New(),
			Name:       name,
			Category:   enums.ProductCategoryDairy,
			PriceCents: 10000,
			StockQty:   5,
			CreatedAt:  now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(product).Error)
	}

	first, err := repo.List(ctx, pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	assert.Equal(t, "Cheddar Slices", first.Products[0].Name)
	assert.NotEmpty(t, first.NextCursor)

	second, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, "Paneer 200g", second.Products[0].Name)
	assert.Empty(t, second.NextCursor)
}

func TestListFilters(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)

	newProduct(t, db, "Orange Juice 1L", 12000, 0, 5)
	snacks := &models.Product{
		ID:         uuid.New(),
		Name:       "Salted Chips",
		Category:   enums.ProductCategorySnacks,
		PriceCents: 2500,
		StockQty:   5,
	}
	require.NoError(t, db.Create(snacks).Error)

	category := enums.ProductCategorySnacks
	result, err := repo.List(ctx, pagination.Params{}, ListFilters{Category: &category})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Salted Chips", result.Products[0].Name)

	result, err = repo.List(ctx, pagination.Params{}, ListFilters{Query: "juice"})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Orange Juice 1L", result.Products[0].Name)

	min := int64(10000)
	result, err = repo.List(ctx, pagination.Params{}, ListFilters{PriceMinCents: &min})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Orange Juice 1L", result.Products[0].Name)
}
