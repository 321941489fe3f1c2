package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/freshkart-dev/freshkart-backend/api/middleware"
	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/logger"
	"github.com/rs/zerolog"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

type stubCartService struct {
	cart      *models.Cart
	getErr    error
	addErr    error
	addCalled bool
	lastQty   int
	lastPrdID uuid.UUID
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Cart, error) {
	s.addCalled = true
	s.lastQty = qty
	s.lastPrdID = productID
	if s.addErr != nil {
		return nil, s.addErr
	}
	return s.cart, nil
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.cart, nil
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func TestGetCartMapsMissingCartToEmptyPayload(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	stub := &stubCartService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(context.Background(), userID.String()))
	rec := httptest.NewRecorder()

	GetCart(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for missing cart, got %d", rec.Code)
	}
	var envelope struct {
		Data models.Cart `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.UserID != userID {
		t.Fatalf("expected empty cart for user %s, got %s", userID, envelope.Data.UserID)
	}
	if len(envelope.Data.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(envelope.Data.Items))
	}
}

func TestGetCartRequiresUserContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	GetCart(&stubCartService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user context, got %d", rec.Code)
	}
}

func TestAddCartItem(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	productID := uuid.New()

	makeRequest := func(body string, stub *stubCartService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(middleware.WithUserID(context.Background(), userID.String()))
		rec := httptest.NewRecorder()
		AddCartItem(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{cart: &models.Cart{UserID: userID}}
		rec := makeRequest(`{"product_id":"`+productID.String()+`","quantity":2}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.addCalled || stub.lastQty != 2 || stub.lastPrdID != productID {
			t.Fatalf("expected AddItem(%s, 2), got called=%v qty=%d id=%s", productID, stub.addCalled, stub.lastQty, stub.lastPrdID)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		rec := makeRequest(`{"product_id":"`+productID.String()+`","quantity":0}`, &stubCartService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := makeRequest(`{"product_id":"`+productID.String()+`","quantity":1,"price_cents":1}`, &stubCartService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("missing product surfaces 404", func(t *testing.T) {
		stub := &stubCartService{addErr: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		rec := makeRequest(`{"product_id":"`+productID.String()+`","quantity":1}`, stub)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
