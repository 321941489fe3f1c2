package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
)

// LineRequest is one product/quantity pair to be priced.
type LineRequest struct {
	ProductID uuid.UUID
	Qty       int
}

// QuoteLine is a verified line with the authoritative unit price.
type QuoteLine struct {
	ProductID      uuid.UUID
	Name           string
	Qty            int
	UnitPriceCents int64
	SubtotalCents  int64
}

// Quote is the result of verifying a set of lines against the live catalog.
type Quote struct {
	Lines         []QuoteLine
	SubtotalCents int64
}

type productFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// Engine verifies order lines against the live catalog. It performs no
// writes: the authoritative price is the product's current price with its
// current discount applied, regardless of what any cart snapshot says.
type Engine struct {
	products productFinder
}

// NewEngine constructs a pricing engine backed by the product finder.
func NewEngine(products productFinder) (*Engine, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &Engine{products: products}, nil
}

// Verify re-prices every line against the live catalog. Each product must
// exist and hold enough stock; the returned quote carries the effective
// discounted unit price per line and the summed subtotal.
func (e *Engine) Verify(ctx context.Context, lines []LineRequest) (*Quote, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no lines to verify")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1").
				WithDetails(map[string]any{"product_id": line.ProductID.String()})
		}
		ids = append(ids, line.ProductID)
	}

	byID, err := e.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	quote := &Quote{Lines: make([]QuoteLine, 0, len(lines))}
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product no longer exists").
				WithDetails(map[string]any{"product_id": line.ProductID.String()})
		}
		if product.StockQty < line.Qty {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{
					"product_id": product.ID.String(),
					"requested":  line.Qty,
					"available":  product.StockQty,
				})
		}

		unit := EffectiveUnitPriceCents(product.PriceCents, product.DiscountPercent)
		subtotal := unit * int64(line.Qty)
		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID:      product.ID,
			Name:           product.Name,
			Qty:            line.Qty,
			UnitPriceCents: unit,
			SubtotalCents:  subtotal,
		})
		quote.SubtotalCents += subtotal
	}
	return quote, nil
}

var hundred = decimal.NewFromInt(100)

// EffectiveUnitPriceCents applies the discount percentage to the listed price
// and rounds half-up to whole cents.
func EffectiveUnitPriceCents(priceCents int64, discountPercent float64) int64 {
	if discountPercent <= 0 {
		return priceCents
	}
	price := decimal.NewFromInt(priceCents)
	discount := price.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred)
	return price.Sub(discount).Round(0).IntPart()
}

// LineSubtotalCents computes round((price - price*discount/100) * qty) in
// cents, the snapshot formula carts freeze at addition time.
func LineSubtotalCents(priceCents int64, discountPercent float64, qty int) int64 {
	price := decimal.NewFromInt(priceCents)
	discounted := price
	if discountPercent > 0 {
		discount := price.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred)
		discounted = price.Sub(discount)
	}
	return discounted.Mul(decimal.NewFromInt(int64(qty))).Round(0).IntPart()
}
