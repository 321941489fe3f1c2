package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshkart-dev/freshkart-backend/api/responses"
	"github.com/freshkart-dev/freshkart-backend/api/validators"
	"github.com/freshkart-dev/freshkart-backend/internal/catalog"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/logger"
)

// ListProducts is the public catalog listing with optional filters.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalog.ListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, parseErr := enums.ParseProductCategory(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid category"))
				return
			}
			filters.Category = &category
		}
		if filters.PriceMinCents, err = validators.ParseQueryInt64(r, "price_min_cents"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.PriceMaxCents, err = validators.ParseQueryInt64(r, "price_max_cents"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":    result.Products,
			"next_cursor": result.NextCursor,
		})
	}
}

// GetProduct returns one catalog entry by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name            string  `json:"name" validate:"required"`
	Brand           *string `json:"brand,omitempty"`
	Description     *string `json:"description,omitempty"`
	Category        string  `json:"category" validate:"required"`
	ImageURL        *string `json:"image_url,omitempty"`
	PriceCents      int64   `json:"price_cents" validate:"min=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
	StockQty        int     `json:"stock_qty" validate:"min=0"`
	AvailableQty    *int    `json:"available_qty,omitempty" validate:"omitempty,min=0"`
}

func (req createProductRequest) toInput() (catalog.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(req.Category))
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	available := req.StockQty
	if req.AvailableQty != nil {
		available = *req.AvailableQty
	}

	return catalog.CreateProductInput{
		Name:            req.Name,
		Brand:           req.Brand,
		Description:     req.Description,
		Category:        category,
		ImageURL:        req.ImageURL,
		PriceCents:      req.PriceCents,
		DiscountPercent: req.DiscountPercent,
		StockQty:        req.StockQty,
		AvailableQty:    available,
	}, nil
}

// AdminCreateProduct handles catalog additions from the back office.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Name            *string  `json:"name,omitempty"`
	Brand           *string  `json:"brand,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Category        *string  `json:"category,omitempty"`
	ImageURL        *string  `json:"image_url,omitempty"`
	PriceCents      *int64   `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	DiscountPercent *float64 `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	StockQty        *int     `json:"stock_qty,omitempty" validate:"omitempty,min=0"`
	AvailableQty    *int     `json:"available_qty,omitempty" validate:"omitempty,min=0"`
}

func (req updateProductRequest) toInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:            req.Name,
		Brand:           req.Brand,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		PriceCents:      req.PriceCents,
		DiscountPercent: req.DiscountPercent,
		StockQty:        req.StockQty,
		AvailableQty:    req.AvailableQty,
	}
	if req.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*req.Category))
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}
	return input, nil
}

// AdminUpdateProduct applies a partial catalog edit.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a catalog entry. Existing order lines keep
// their frozen copy of the product.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
