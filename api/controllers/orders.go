package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/freshkart-dev/freshkart-backend/api/responses"
	"github.com/freshkart-dev/freshkart-backend/api/validators"
	"github.com/freshkart-dev/freshkart-backend/internal/orders"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/logger"
	"github.com/freshkart-dev/freshkart-backend/pkg/types"
)

type deliveryAddressRequest struct {
	RecipientName string  `json:"recipient_name"`
	MobileNumber  string  `json:"mobile_number"`
	StreetAddress string  `json:"street_address"`
	Apartment     *string `json:"apartment,omitempty"`
	City          string  `json:"city"`
	PostalCode    string  `json:"postal_code"`
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type placeOrderRequest struct {
	Items            []orderItemRequest     `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress  deliveryAddressRequest `json:"delivery_address"`
	PaymentMethod    string                 `json:"payment_method" validate:"required"`
	ShippingFeeCents *int64                 `json:"shipping_fee_cents,omitempty" validate:"omitempty,min=0"`
}

// PlaceOrder submits the requested items as an order. Field-level address
// validation is left to the coordinator so the first-missing-field contract
// stays in one place.
func PlaceOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.ItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			productID, parseErr := uuid.Parse(item.ProductID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product id"))
				return
			}
			items = append(items, orders.ItemInput{ProductID: productID, Quantity: item.Quantity})
		}

		input := orders.PlaceOrderInput{
			Items: items,
			DeliveryAddress: types.DeliveryAddress{
				RecipientName: strings.TrimSpace(payload.DeliveryAddress.RecipientName),
				MobileNumber:  strings.TrimSpace(payload.DeliveryAddress.MobileNumber),
				StreetAddress: strings.TrimSpace(payload.DeliveryAddress.StreetAddress),
				Apartment:     payload.DeliveryAddress.Apartment,
				City:          strings.TrimSpace(payload.DeliveryAddress.City),
				PostalCode:    strings.TrimSpace(payload.DeliveryAddress.PostalCode),
			},
			PaymentMethod:    enums.PaymentMethod(strings.TrimSpace(payload.PaymentMethod)),
			ShippingFeeCents: payload.ShippingFeeCents,
		}

		order, err := svc.PlaceOrder(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ListMyOrders pages through the caller's order history, newest first.
func ListMyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetUserOrders(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"orders":      result.Orders,
			"next_cursor": result.NextCursor,
		})
	}
}

// GetOrder returns one of the caller's orders.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateOrderStatus moves an order along the fulfillment lifecycle.
func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type updatePaymentStatusRequest struct {
	Status    string  `json:"status" validate:"required"`
	PaymentID *string `json:"payment_id,omitempty"`
}

// AdminUpdatePaymentStatus moves an order along the settlement lifecycle.
func AdminUpdatePaymentStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload updatePaymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePaymentStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		order, err := svc.UpdatePaymentStatus(r.Context(), orderID, status, payload.PaymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
