package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/identity"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/mykafka"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/payment"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/pricing"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/repo"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

// CheckoutService turns a cart into a paid order. Everything before the final
// commit is read-only; the commit itself is one atomic transaction, so a
// failure at any stage leaves no partial writes behind.
type CheckoutService struct {
	Repo      *repo.GormRepo
	Gateway   payment.Gateway
	Calc      pricing.Calculator
	Tolerance decimal.Decimal
	Events    mykafka.EventPublisher
}

type CheckoutResult struct {
	OrderID     string
	TotalAmount decimal.Decimal
}

// Checkout runs the full state machine: validate, load, price, reconcile,
// charge, commit. The caller resolves identity; guest ids are rejected here
// again as a backstop before any data access.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req transport.CheckoutRequest) (*CheckoutResult, error) {
	if userID == "" || strings.HasPrefix(userID, "guest_") {
		return nil, fail(ErrAuthRequired, "Unauthorized")
	}

	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	cartID := identity.CartID(userID)
	cart, err := s.loadActiveCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if _, err := s.verifyStock(ctx, cart.Items); err != nil {
		return nil, err
	}

	serverPricing, orderItems := s.Calc.Quote(cart.Items)

	if !pricing.Reconcile(serverPricing, *req.Pricing, s.Tolerance) {
		return nil, &Error{
			Kind:    ErrPricingMismatch,
			Message: "Pricing has changed. Please review updated totals.",
			Pricing: &serverPricing,
		}
	}

	charge, err := s.Gateway.Charge(ctx, payment.Info{
		CardName:   req.PaymentInfo.CardName,
		CardLast4:  req.PaymentInfo.CardLast4,
		CardExpiry: req.PaymentInfo.CardExpiry,
	}, serverPricing.Total)
	if err != nil {
		return nil, fail(ErrPaymentRejected, err.Error())
	}

	now := time.Now().UTC()
	order := &models.Order{
		OrderID:         "order_" + uuid.NewString(),
		UserID:          userID,
		Items:           orderItems,
		Subtotal:        serverPricing.Subtotal,
		Tax:             serverPricing.Tax,
		Shipping:        serverPricing.Shipping,
		TotalAmount:     serverPricing.Total,
		Status:          models.OrderStatusPaid,
		ShippingAddress: req.ShippingAddress,
		PaymentProvider: charge.Provider,
		PaymentRef:      charge.Reference,
		PaymentCard: models.PaymentCard{
			CardLast4:  req.PaymentInfo.CardLast4,
			CardExpiry: req.PaymentInfo.CardExpiry,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx := s.Repo.NewCheckoutTx(now).InsertOrder(order)
	for _, productID := range sortedKeys(cart.Items) {
		tx.DecrementStock(productID, cart.Items[productID].WeightGrams)
	}
	tx.MarkCheckedOut(cartID)

	if err := tx.Commit(ctx); err != nil {
		if errors.Is(err, repo.ErrInventoryConflict) || errors.Is(err, repo.ErrOrderExists) {
			s.reportUncompensated(ctx, userID, order, charge, err)
			return nil, fail(ErrInventoryConflict,
				"Checkout failed due to inventory change. Payment was not captured.")
		}
		return nil, fmt.Errorf("checkout commit: %w", err)
	}

	publish(ctx, s.Events, TopicOrderEvents, userID, map[string]interface{}{
		"type":        "order_created",
		"userId":      userID,
		"orderId":     order.OrderID,
		"totalAmount": order.TotalAmount.StringFixed(2),
		"itemCount":   len(orderItems),
	})

	return &CheckoutResult{OrderID: order.OrderID, TotalAmount: serverPricing.Total}, nil
}

func validateCheckoutRequest(req transport.CheckoutRequest) error {
	addr := req.ShippingAddress
	addrFields := []string{
		addr.FirstName, addr.LastName, addr.Email, addr.Phone,
		addr.Address, addr.City, addr.State, addr.Zip,
	}
	for _, f := range addrFields {
		if f == "" {
			return fail(ErrValidation, "Invalid checkout data")
		}
	}

	pay := req.PaymentInfo
	if pay.CardName == "" || pay.CardLast4 == "" || pay.CardExpiry == "" {
		return fail(ErrValidation, "Invalid checkout data")
	}

	if req.Pricing == nil {
		return fail(ErrValidation, "Invalid checkout data")
	}

	return nil
}

func (s *CheckoutService) loadActiveCart(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrValidation, "Cart is empty")
		}
		return nil, fmt.Errorf("repo.GetCart: %w", err)
	}
	if len(cart.Items) == 0 || cart.Status != models.CartStatusActive {
		return nil, fail(ErrValidation, "Cart is empty")
	}
	return cart, nil
}

// verifyStock is the read-time half of the inventory conflict monitor: a fast
// fail with a per-product message. The commit-time condition remains the
// authoritative gate.
func (s *CheckoutService) verifyStock(ctx context.Context, items models.CartItems) (map[string]*models.Product, error) {
	products := make(map[string]*models.Product, len(items))

	for _, productID := range sortedKeys(items) {
		item := items[productID]

		product, err := s.Repo.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fail(ErrValidation, fmt.Sprintf("Product %s not found", productID))
			}
			return nil, fmt.Errorf("repo.GetProduct: %w", err)
		}
		if !product.IsActive {
			return nil, fail(ErrValidation,
				fmt.Sprintf("Product %s is no longer available", product.ProductName))
		}
		if product.AvailableGrams < item.WeightGrams {
			return nil, fail(ErrStockInsufficient,
				fmt.Sprintf("Insufficient stock for %s", product.ProductName))
		}

		products[productID] = product
	}

	return products, nil
}

// reportUncompensated makes the charged-but-not-committed state loud: the
// gateway captured the payment but the order never materialized, and no
// automatic refund is attempted. Operators reconcile from this signal.
func (s *CheckoutService) reportUncompensated(ctx context.Context, userID string, order *models.Order, charge payment.Result, cause error) {
	logging.FromContext(ctx).Error("payment_uncompensated",
		"userId", userID,
		"orderId", order.OrderID,
		"paymentProvider", charge.Provider,
		"paymentRef", charge.Reference,
		"totalAmount", order.TotalAmount.StringFixed(2),
		"error", cause,
	)

	publish(ctx, s.Events, TopicOrderEvents, userID, map[string]interface{}{
		"type":        "payment_uncompensated",
		"userId":      userID,
		"orderId":     order.OrderID,
		"paymentRef":  charge.Reference,
		"totalAmount": order.TotalAmount.StringFixed(2),
	})
}

func sortedKeys(items models.CartItems) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
