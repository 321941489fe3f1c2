package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/internal/catalog"
	"github.com/freshkart-dev/freshkart-backend/internal/pricing"
	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	"github.com/freshkart-dev/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
	"github.com/freshkart-dev/freshkart-backend/pkg/logger"
	"github.com/freshkart-dev/freshkart-backend/pkg/metrics"
	"github.com/freshkart-dev/freshkart-backend/pkg/pagination"
	"github.com/freshkart-dev/freshkart-backend/pkg/types"
)

const (
	outcomeSuccess  = "success"
	outcomeConflict = "conflict"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartManager interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

type quoteVerifier interface {
	Verify(ctx context.Context, lines []pricing.LineRequest) (*pricing.Quote, error)
}

// ItemInput is one requested order line. Prices are never part of the
// request; they are resolved against the live catalog.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput carries everything a buyer submits at checkout. The
// caller names the items it wants; the cart is not consulted, only
// cleared once the order commits.
type PlaceOrderInput struct {
	Items            []ItemInput
	DeliveryAddress  types.DeliveryAddress
	PaymentMethod    enums.PaymentMethod
	ShippingFeeCents *int64
}

// Service coordinates order placement and owns the order ledger.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, next enums.PaymentStatus, paymentID *string) (*models.Order, error)
}

type service struct {
	repo            *Repository
	stock           *catalog.Repository
	carts           cartManager
	pricer          quoteVerifier
	tx              txRunner
	log             *logger.Logger
	metrics         *metrics.OrderMetrics
	defaultShipping int64
}

func NewService(
	repo *Repository,
	stock *catalog.Repository,
	carts cartManager,
	pricer quoteVerifier,
	tx txRunner,
	log *logger.Logger,
	orderMetrics *metrics.OrderMetrics,
	defaultShippingFeeCents int64,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if defaultShippingFeeCents < 0 {
		return nil, fmt.Errorf("default shipping fee cannot be negative")
	}
	return &service{
		repo:            repo,
		stock:           stock,
		carts:           carts,
		pricer:          pricer,
		tx:              tx,
		log:             log,
		metrics:         orderMetrics,
		defaultShipping: defaultShippingFeeCents,
	}, nil
}

// PlaceOrder turns the requested items into an immutable order. The request
// is validated and priced against the live catalog, then committed in three
// steps: create the order, decrement stock, clear the cart. A decrement
// failure unwinds the order; a cart-clear failure does not fail the
// placement.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	start := time.Now()
	order, err := s.placeOrder(ctx, userID, input)
	s.metrics.ObserveDuration(placementOutcome(err), time.Since(start))
	return order, err
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot place an order without items")
	}

	if field, missing := input.DeliveryAddress.FirstMissingField(); missing {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is incomplete").
			WithDetails(map[string]any{"missing_field": field})
	}

	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]any{"payment_method": input.PaymentMethod.String()})
	}

	lines := make([]pricing.LineRequest, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, pricing.LineRequest{ProductID: item.ProductID, Qty: item.Quantity})
	}

	quote, err := s.pricer.Verify(ctx, lines)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
			s.metrics.IncConflict()
		}
		return nil, err
	}

	shipping := s.defaultShipping
	if input.ShippingFeeCents != nil {
		if *input.ShippingFeeCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping fee cannot be negative")
		}
		shipping = *input.ShippingFeeCents
	}

	order := &models.Order{
		ID:               uuid.New(),
		UserID:           userID,
		DeliveryAddress:  input.DeliveryAddress,
		SubtotalCents:    quote.SubtotalCents,
		ShippingFeeCents: shipping,
		TotalAmountCents: quote.SubtotalCents + shipping,
		PaymentMethod:    input.PaymentMethod,
		PaymentStatus:    enums.PaymentStatusPending,
		OrderStatus:      enums.OrderStatusPending,
	}

	deltas := make([]catalog.StockDelta, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      line.ProductID,
			Name:           line.Name,
			Quantity:       line.Qty,
			UnitPriceCents: line.UnitPriceCents,
		})
		deltas = append(deltas, catalog.StockDelta{ProductID: line.ProductID, Qty: line.Qty})
	}

	if _, err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create order")
	}

	if err := s.decrementStock(ctx, deltas); err != nil {
		return nil, s.compensate(ctx, order.ID, err)
	}

	// The cart is cleared strictly after the stock decrement, whatever it
	// held. A failure here leaves a stale cart, not a wrong order, so the
	// placement still succeeds.
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.metrics.IncCartClearFailure()
		s.log.Error(s.log.WithField(ctx, "order_id", order.ID.String()), "failed to clear cart after placement", err)
	}

	s.metrics.IncPlaced(order.PaymentMethod.String())
	return order, nil
}

func (s *service) decrementStock(ctx context.Context, deltas []catalog.StockDelta) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.stock.WithTx(tx).DecrementStock(ctx, deltas)
	})
}

// compensate unwinds an order whose stock decrement did not go through.
// The original error always wins; a failed delete escalates to an
// integrity fault carrying both.
func (s *service) compensate(ctx context.Context, orderID uuid.UUID, cause error) error {
	if typed := pkgerrors.As(cause); typed != nil && typed.Code() == pkgerrors.CodeConflict {
		s.metrics.IncConflict()
	}

	if err := s.repo.DeleteOrder(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeIntegrity,
			multierr.Combine(cause, err),
			"stock decrement failed and order could not be unwound")
	}

	s.metrics.IncCompensation()
	s.log.Error(s.log.WithField(ctx, "order_id", orderID.String()), "order unwound after stock decrement failure", cause)
	return cause
}

func placementOutcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return outcomeError
	}
	switch typed.Code() {
	case pkgerrors.CodeConflict:
		return outcomeConflict
	case pkgerrors.CodeValidation, pkgerrors.CodeNotFound:
		return outcomeRejected
	default:
		return outcomeError
	}
}

// GetUserOrders lists the user's orders newest first.
func (s *service) GetUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	result, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list orders")
	}
	return result, nil
}

// GetOrder loads one order, scoped to its owner. A foreign order id yields
// not-found rather than forbidden so ownership is never leaked.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}
	return order, nil
}

// UpdateOrderStatus moves an order along the fulfillment lifecycle.
// Delivery stamps delivered_at; cancellation returns the order's quantities
// to stock.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"order_status": next.String()})
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}

	if !order.OrderStatus.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "illegal order status transition").
			WithDetails(map[string]any{"from": order.OrderStatus.String(), "to": next.String()})
	}

	updates := map[string]any{"order_status": next}
	var deliveredAt *time.Time
	if next == enums.OrderStatusDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
		updates["delivered_at"] = now
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatusFields(ctx, orderID, updates); err != nil {
			return err
		}
		if next == enums.OrderStatusCancelled {
			deltas := make([]catalog.StockDelta, 0, len(order.Items))
			for _, item := range order.Items {
				deltas = append(deltas, catalog.StockDelta{ProductID: item.ProductID, Qty: item.Quantity})
			}
			return s.stock.WithTx(tx).Restock(ctx, deltas)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update order status")
	}

	order.OrderStatus = next
	order.DeliveredAt = deliveredAt
	return order, nil
}

// UpdatePaymentStatus moves an order along the settlement lifecycle,
// optionally attaching the processor's payment id.
func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, next enums.PaymentStatus, paymentID *string) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
			WithDetails(map[string]any{"payment_status": next.String()})
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}

	if !order.PaymentStatus.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "illegal payment status transition").
			WithDetails(map[string]any{"from": order.PaymentStatus.String(), "to": next.String()})
	}

	updates := map[string]any{"payment_status": next}
	if paymentID != nil {
		updates["payment_id"] = *paymentID
	}
	if err := s.repo.UpdateStatusFields(ctx, orderID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update payment status")
	}

	order.PaymentStatus = next
	if paymentID != nil {
		order.PaymentID = paymentID
	}
	return order, nil
}
