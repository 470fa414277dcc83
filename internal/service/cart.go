package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/identity"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/mykafka"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/repo"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

const cartTTL = 30 * 24 * time.Hour

type CartService struct {
	Repo   *repo.GormRepo
	Events mykafka.EventPublisher
}

// AddItem puts a product line into the cart, creating the cart lazily on
// first use. An existing line keeps its frozen PriceAtAdd and only has its
// weight replaced; a new line freezes the current catalog price.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, weightGrams int64) (*transport.CartView, error) {
	if weightGrams <= 0 {
		return nil, fail(ErrValidation, "Invalid weightGrams")
	}

	product, err := s.checkedProduct(ctx, productID, weightGrams)
	if err != nil {
		return nil, err
	}

	cartID := identity.CartID(userID)
	cart, err := s.getOrCreateCart(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}

	if line, ok := cart.Items[productID]; ok {
		line.WeightGrams = weightGrams
		cart.Items[productID] = line
	} else {
		cart.Items[productID] = models.CartItem{
			ProductID:   productID,
			ProductName: product.ProductName,
			WeightGrams: weightGrams,
			PriceAtAdd:  product.Price,
		}
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicCartEvents, userID, map[string]interface{}{
		"type":        "cart_item_added",
		"userId":      userID,
		"productId":   productID,
		"weightGrams": weightGrams,
	})

	view := BuildCartView(cartID, userID, cart.Items)
	return &view, nil
}

// UpdateItem replaces the weight of a line that must already be in the cart.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, weightGrams int64) (*transport.CartView, error) {
	if weightGrams <= 0 {
		return nil, fail(ErrValidation, "Invalid weightGrams")
	}

	if _, err := s.checkedProduct(ctx, productID, weightGrams); err != nil {
		return nil, err
	}

	cartID := identity.CartID(userID)
	cart, err := s.Repo.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Cart not found")
		}
		return nil, fmt.Errorf("repo.GetCart: %w", err)
	}

	line, ok := cart.Items[productID]
	if !ok {
		return nil, fail(ErrNotFound, "Item not in cart")
	}
	line.WeightGrams = weightGrams
	cart.Items[productID] = line

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicCartEvents, userID, map[string]interface{}{
		"type":        "cart_item_updated",
		"userId":      userID,
		"productId":   productID,
		"weightGrams": weightGrams,
	})

	view := BuildCartView(cartID, userID, cart.Items)
	return &view, nil
}

// ClearCart empties the cart and resets it to ACTIVE, writing the record even
// if it did not exist before (same semantics as a keyed blind update).
func (s *CartService) ClearCart(ctx context.Context, userID string) (*transport.CartView, error) {
	cartID := identity.CartID(userID)
	cart, err := s.getOrCreateCart(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = models.CartItems{}
	cart.Status = models.CartStatusActive

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicCartEvents, userID, map[string]interface{}{
		"type":   "cart_cleared",
		"userId": userID,
	})

	view := BuildCartView(cartID, userID, cart.Items)
	return &view, nil
}

// GetCart returns the cart view without writing anything; a missing cart is
// an empty view, not an error.
func (s *CartService) GetCart(ctx context.Context, userID string) (*transport.CartView, error) {
	cartID := identity.CartID(userID)
	cart, err := s.Repo.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			view := BuildCartView(cartID, userID, nil)
			return &view, nil
		}
		return nil, fmt.Errorf("repo.GetCart: %w", err)
	}

	view := BuildCartView(cartID, userID, cart.Items)
	return &view, nil
}

func (s *CartService) checkedProduct(ctx context.Context, productID string, weightGrams int64) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Product not found")
		}
		return nil, fmt.Errorf("repo.GetProduct: %w", err)
	}
	if !product.IsActive {
		return nil, fail(ErrValidation, "Product is not available")
	}
	if product.AvailableGrams < weightGrams {
		return nil, fail(ErrStockInsufficient, "Insufficient stock")
	}
	return product, nil
}

func (s *CartService) getOrCreateCart(ctx context.Context, cartID, userID string) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Cart{
				CartID: cartID,
				UserID: userID,
				Items:  models.CartItems{},
				Status: models.CartStatusActive,
			}, nil
		}
		return nil, fmt.Errorf("repo.GetCart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	return cart, nil
}

func (s *CartService) saveCart(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(cartTTL).Unix()
	if err := s.Repo.SaveCart(ctx, cart); err != nil {
		return fmt.Errorf("repo.SaveCart: %w", err)
	}
	return nil
}

// BuildCartView shapes a cart for the frontend: rounded per-line totals, and
// a display subtotal rounded after summation. Checkout pricing rounds in the
// opposite order; the two are intentionally separate.
func BuildCartView(cartID, userID string, items models.CartItems) transport.CartView {
	lines := make([]transport.CartLineView, 0, len(items))
	subtotal := decimal.Zero
	var totalWeight int64

	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		item := items[id]
		raw := decimal.NewFromInt(item.PriceAtAdd).
			Mul(decimal.NewFromInt(item.WeightGrams)).
			Div(decimal.NewFromInt(10000))

		lines = append(lines, transport.CartLineView{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			WeightGrams:  item.WeightGrams,
			PricePerUnit: item.PriceAtAdd,
			TotalPrice:   raw.Round(2),
		})
		subtotal = subtotal.Add(raw)
		totalWeight += item.WeightGrams
	}

	return transport.CartView{
		CartID:      cartID,
		UserID:      userID,
		Items:       lines,
		ItemCount:   len(lines),
		TotalWeight: totalWeight,
		Subtotal:    subtotal.Round(2),
	}
}
