package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/pagination"
)

// StockDelta is one product/quantity pair for a stock movement.
type StockDelta struct {
	ProductID uuid.UUID
	Qty       int
}

// ListFilters narrows the public product listing.
type ListFilters struct {
	Category      *enums.ProductCategory
	Query         string
	PriceMinCents *int64
	PriceMaxCents *int64
}

// ListResult is one page of products plus the cursor for the next page.
type ListResult struct {
	Products   []models.Product
	NextCursor string
}

// Repository wires together product persistence and the stock gate.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads all products matching the given ids, keyed by id. Missing
// ids are simply absent from the map; callers decide whether that is an error.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

// List returns a page of products ordered newest-first with cursor pagination.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *filters.PriceMinCents)
	}
	if filters.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *filters.PriceMaxCents)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(name) LIKE ?", pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Products: rows, NextCursor: nextCursor}, nil
}

// CheckAvailability reports whether the product currently has at least qty in
// stock. Advisory only: the answer can be stale the moment it is returned, the
// conditional decrement at commit time is what actually guards stock.
func (r *Repository) CheckAvailability(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", productID, qty).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DecrementStock applies every delta with a conditional UPDATE. The caller is
// expected to run it inside a transaction: the first delta that cannot be
// satisfied returns CodeConflict so the whole batch rolls back.
func (r *Repository) DecrementStock(ctx context.Context, deltas []StockDelta) error {
	for _, delta := range deltas {
		if delta.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock decrement quantity must be positive")
		}

		res := r.db.WithContext(ctx).Exec(`
			UPDATE products
			SET stock_qty = stock_qty - ?,
				available_qty = CASE WHEN available_qty >= ? THEN available_qty - ? ELSE 0 END,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND stock_qty >= ?
		`, delta.Qty, delta.Qty, delta.Qty, delta.ProductID, delta.Qty)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{
					"product_id": delta.ProductID.String(),
					"requested":  delta.Qty,
				})
		}
	}
	return nil
}

// Restock reverses a stock decrement, used when a placed order is cancelled.
func (r *Repository) Restock(ctx context.Context, deltas []StockDelta) error {
	for _, delta := range deltas {
		if delta.Qty <= 0 {
			continue
		}
		res := r.db.WithContext(ctx).Exec(`
			UPDATE products
			SET stock_qty = stock_qty + ?,
				available_qty = available_qty + ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, delta.Qty, delta.Qty, delta.ProductID)
		if res.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock")
		}
	}
	return nil
}
