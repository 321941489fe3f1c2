package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freshkart-dev/freshkart-backend/internal/catalog"
	"github.com/freshkart-dev/freshkart-backend/pkg/config"
	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/logger"
	"github.com/freshkart-dev/freshkart-backend/pkg/pagination"
)

type stubCatalog struct{}

func (s *stubCatalog) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (s *stubCatalog) UpdateProduct(ctx context.Context, productID uuid.UUID, input catalog.UpdateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return nil
}

func (s *stubCatalog) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return &models.Product{}, nil
}

func (s *stubCatalog) ListProducts(ctx context.Context, params pagination.Params, filters catalog.ListFilters) (*catalog.ListResult, error) {
	return &catalog.ListResult{Products: []models.Product{}}, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "freshkart"
	cfg.JWT.ExpirationMinutes = 15

	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel, Output: io.Discard})

	return NewRouter(Deps{
		Config:  cfg,
		Logger:  logg,
		Catalog: &stubCatalog{},
	})
}

func TestRouterPublicSurface(t *testing.T) {
	handler := testRouter()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from liveness, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from public listing, got %d", rec.Code)
	}
}

func TestRouterProtectedSurfaceRequiresAuth(t *testing.T) {
	handler := testRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodPost, "/api/v1/admin/products"},
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without credentials, got %d", tc.method, tc.path, rec.Code)
		}
	}
}
