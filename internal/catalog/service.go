package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name            string
	Brand           *string
	Description     *string
	Category        enums.ProductCategory
	ImageURL        *string
	PriceCents      int64
	DiscountPercent float64
	StockQty        int
	AvailableQty    int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name            *string
	Brand           *string
	Description     *string
	Category        *enums.ProductCategory
	ImageURL        *string
	PriceCents      *int64
	DiscountPercent *float64
	StockQty        *int
	AvailableQty    *int
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProduct validates and inserts a new listing.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if err := validatePriceCents(input.PriceCents); err != nil {
		return nil, err
	}
	if err := validateDiscountPercent(input.DiscountPercent); err != nil {
		return nil, err
	}
	if err := validateStockQuantities(input.StockQty, input.AvailableQty); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:            name,
		Brand:           input.Brand,
		Description:     input.Description,
		Category:        input.Category,
		ImageURL:        input.ImageURL,
		PriceCents:      input.PriceCents,
		DiscountPercent: input.DiscountPercent,
		StockQty:        input.StockQty,
		AvailableQty:    input.AvailableQty,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return created, nil
}

// UpdateProduct applies the partial update after validating every changed field.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
		}
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.PriceCents != nil {
		if err := validatePriceCents(*input.PriceCents); err != nil {
			return nil, err
		}
		product.PriceCents = *input.PriceCents
	}
	if input.DiscountPercent != nil {
		if err := validateDiscountPercent(*input.DiscountPercent); err != nil {
			return nil, err
		}
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.StockQty != nil {
		product.StockQty = *input.StockQty
	}
	if input.AvailableQty != nil {
		product.AvailableQty = *input.AvailableQty
	}
	if err := validateStockQuantities(product.StockQty, product.AvailableQty); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return updated, nil
}

// DeleteProduct removes a listing. Order lines keep their frozen copies.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetProduct loads a single listing.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ListProducts returns the public paginated listing.
func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func validatePriceCents(value int64) error {
	if value < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be non-negative")
	}
	return nil
}

func validateDiscountPercent(value float64) error {
	if value < 0 || value > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
	}
	return nil
}

func validateStockQuantities(stockQty, availableQty int) error {
	if stockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock_qty must be non-negative")
	}
	if availableQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "available_qty must be non-negative")
	}
	if availableQty > stockQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "available_qty cannot exceed stock_qty")
	}
	return nil
}
