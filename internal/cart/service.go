package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshkart-dev/freshkart-backend/internal/pricing"
	"github.com/freshkart-dev/freshkart-backend/pkg/db/models"
	pkgerrors "github.com/freshkart-dev/freshkart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart operations for a single member.
type Service interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products productReader
	tx       txRunner
	locks    *userLocks
}

// NewService builds a cart service with the required dependencies.
func NewService(repo *Repository, products productReader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		products: products,
		tx:       tx,
		locks:    newUserLocks(),
	}, nil
}

// AddItem appends the product to the cart, accumulating quantity when a line
// for it already exists. The price and discount snapshot is taken on first
// addition and kept on accumulation.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	unlock := s.locks.Acquire(userID)
	defer unlock()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindOrCreateByUserID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item, err := repo.FindItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			item.Quantity += qty
			item.SubtotalCents = pricing.LineSubtotalCents(item.PriceAtAdditionCents, item.DiscountAtAddition, item.Quantity)
			if err := repo.UpdateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			fresh := &models.CartItem{
				ID:                   uuid.New(),
				CartID:               cart.ID,
				ProductID:            productID,
				Quantity:             qty,
				PriceAtAdditionCents: product.PriceCents,
				DiscountAtAddition:   product.DiscountPercent,
				SubtotalCents:        pricing.LineSubtotalCents(product.PriceCents, product.DiscountPercent, qty),
			}
			if err := repo.CreateItem(ctx, fresh); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		if _, err := repo.RecomputeTotal(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute cart total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadCart(ctx, userID)
}

// GetCart returns the user's cart or CodeNotFound when none exists yet.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.loadCart(ctx, userID)
}

// UpdateItemQuantity replaces the quantity of an existing line. The snapshot
// price is kept; only quantity and the derived subtotal change.
func (s *service) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	unlock := s.locks.Acquire(userID)
	defer unlock()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		item.Quantity = qty
		item.SubtotalCents = pricing.LineSubtotalCents(item.PriceAtAdditionCents, item.DiscountAtAddition, qty)
		if err := repo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}

		if _, err := repo.RecomputeTotal(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute cart total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadCart(ctx, userID)
}

// RemoveItem deletes the line for the product. Removing an absent product or
// from an absent cart succeeds without effect.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {
	unlock := s.locks.Acquire(userID)
	defer unlock()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if err := repo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}
		if _, err := repo.RecomputeTotal(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute cart total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			// Never had a cart; removal is still a success.
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

// Clear removes every line and resets the total in one transaction. Clearing
// an absent or already empty cart succeeds.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	unlock := s.locks.Acquire(userID)
	defer unlock()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		if err := repo.DeleteAllItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart items")
		}
		if _, err := repo.RecomputeTotal(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart total")
		}
		return nil
	})
}

func (s *service) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}
