package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/freshkart-dev/freshkart-backend/api/middleware"
	"github.com/freshkart-dev/freshkart-backend/internal/orders"
	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/pagination"
)

type stubOrderService struct {
	order     *models.Order
	placeErr  error
	lastInput orders.PlaceOrderInput
	placed    bool
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input orders.PlaceOrderInput) (*models.Order, error) {
	s.placed = true
	s.lastInput = input
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return s.order, nil
}

func (s *stubOrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.ListResult, error) {
	return &orders.ListResult{Orders: []models.Order{}}, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return s.order, nil
}

func (s *stubOrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	return s.order, nil
}

func (s *stubOrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, next enums.PaymentStatus, paymentID *string) (*models.Order, error) {
	return s.order, nil
}

func TestPlaceOrder(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	productID := uuid.New()
	body := `{
		"items": [
			{"product_id": "` + productID.String() + `", "quantity": 2}
		],
		"delivery_address": {
			"recipient_name": "Asha Rao",
			"mobile_number": "+91-98765-43210",
			"street_address": "14 Lakeview Road",
			"city": "Bengaluru",
			"postal_code": "560001"
		},
		"payment_method": "cod"
	}`

	makeRequest := func(payload string, stub *stubOrderService, withUser bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(payload))
		if withUser {
			req = req.WithContext(middleware.WithUserID(context.Background(), userID.String()))
		}
		rec := httptest.NewRecorder()
		PlaceOrder(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{order: &models.Order{ID: uuid.New(), UserID: userID, TotalAmountCents: 18500}}
		rec := makeRequest(body, stub, true)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.placed {
			t.Fatal("expected PlaceOrder to be invoked")
		}
		if stub.lastInput.PaymentMethod != enums.PaymentMethodCOD {
			t.Fatalf("expected cod, got %s", stub.lastInput.PaymentMethod)
		}
		if stub.lastInput.DeliveryAddress.RecipientName != "Asha Rao" {
			t.Fatalf("unexpected address %+v", stub.lastInput.DeliveryAddress)
		}
		if len(stub.lastInput.Items) != 1 ||
			stub.lastInput.Items[0].ProductID != productID ||
			stub.lastInput.Items[0].Quantity != 2 {
			t.Fatalf("unexpected items %+v", stub.lastInput.Items)
		}
	})

	t.Run("missing items", func(t *testing.T) {
		rec := makeRequest(`{
			"delivery_address": {"recipient_name": "Asha Rao"},
			"payment_method": "cod"
		}`, &stubOrderService{}, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without items, got %d", rec.Code)
		}
	})

	t.Run("zero quantity line", func(t *testing.T) {
		rec := makeRequest(`{
			"items": [{"product_id": "`+productID.String()+`", "quantity": 0}],
			"delivery_address": {"recipient_name": "Asha Rao"},
			"payment_method": "cod"
		}`, &stubOrderService{}, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		rec := makeRequest(body, &stubOrderService{}, false)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing payment method", func(t *testing.T) {
		rec := makeRequest(`{"delivery_address":{}}`, &stubOrderService{}, true)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("stock conflict surfaces 409 with details", func(t *testing.T) {
		stub := &stubOrderService{placeErr: pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
			WithDetails(map[string]any{"requested": 3, "available": 2})}
		rec := makeRequest(body, stub, true)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var envelope struct {
			Error struct {
				Code    string         `json:"code"`
				Details map[string]any `json:"details"`
			} `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Error.Code != string(pkgerrors.CodeConflict) {
			t.Fatalf("expected conflict code, got %s", envelope.Error.Code)
		}
		if envelope.Error.Details["requested"] != float64(3) {
			t.Fatalf("expected conflict details, got %v", envelope.Error.Details)
		}
	})
}

func TestAdminUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+orderID.String()+"/status",
		strings.NewReader(`{"status":"teleported"}`))
	req = req.WithContext(routeCtxWithParam(context.Background(), "orderId", orderID.String()))
	rec := httptest.NewRecorder()

	AdminUpdateOrderStatus(&stubOrderService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}
}
