package httpserver

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/pricing"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

func checkoutBody(p pricing.Pricing) transport.CheckoutRequest {
	return transport.CheckoutRequest{
		ShippingAddress: models.ShippingAddress{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+1-555-0100",
			Address:   "1 Analytical Way",
			City:      "London",
			State:     "LN",
			Zip:       "00001",
		},
		PaymentInfo: transport.PaymentInfoRequest{
			CardName:   "Ada Lovelace",
			CardLast4:  "4242",
			CardExpiry: "12/30",
		},
		Pricing: &p,
	}
}

func seedCheckoutCart(t *testing.T, env *testEnv, userID string) pricing.Pricing {
	t.Helper()

	env.seedProduct(t, "candy_1", "Cola Bottles", 120, 1000)
	items := models.CartItems{
		"candy_1": {ProductID: "candy_1", ProductName: "Cola Bottles", WeightGrams: 500, PriceAtAdd: 120},
	}
	env.seedCart(t, "cart_"+userID, userID, items)

	p, _ := env.Checkout.Svc.Calc.Quote(items)
	return p
}

func TestCheckoutHTTP_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/checkout", checkoutBody(pricing.Pricing{}))
	require.NoError(t, env.Checkout.Checkout(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp transport.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Unauthorized", resp.Error)
}

func TestCheckoutHTTP_Success(t *testing.T) {
	env := newTestEnv(t)
	quote := seedCheckoutCart(t, env, "user1")

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/checkout", checkoutBody(quote), accessCookie(t, "user1"))
	require.NoError(t, env.Checkout.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.CheckoutResponse
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.OrderID, "order_")
	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, "9.47", resp.TotalAmount)
	assert.Equal(t, "Order placed successfully", resp.Message)

	var product models.Product
	require.NoError(t, env.DB.Where("product_id = ?", "candy_1").First(&product).Error)
	assert.Equal(t, int64(500), product.AvailableGrams)
}

func TestCheckoutHTTP_PricingMismatchEnvelope(t *testing.T) {
	env := newTestEnv(t)
	quote := seedCheckoutCart(t, env, "user1")

	stale := quote
	stale.Total = stale.Total.Sub(decimal.RequireFromString("1.00"))

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/checkout", checkoutBody(stale), accessCookie(t, "user1"))
	require.NoError(t, env.Checkout.Checkout(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp transport.PricingMismatchResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "PRICING_MISMATCH", resp.Error)
	assert.Equal(t, "Pricing has changed. Please review updated totals.", resp.Message)
	assert.True(t, resp.Pricing.Total.Equal(quote.Total), "server pricing is returned for re-display")

	var product models.Product
	require.NoError(t, env.DB.Where("product_id = ?", "candy_1").First(&product).Error)
	assert.Equal(t, int64(1000), product.AvailableGrams, "nothing committed on a mismatch")
}

func TestCheckoutHTTP_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/checkout", checkoutBody(pricing.Pricing{}), accessCookie(t, "user1"))
	require.NoError(t, env.Checkout.Checkout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp transport.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Cart is empty", resp.Error)
}

func TestCheckoutHTTP_ResubmitAfterCheckout(t *testing.T) {
	env := newTestEnv(t)
	quote := seedCheckoutCart(t, env, "user1")

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/checkout", checkoutBody(quote), accessCookie(t, "user1"))
	require.NoError(t, env.Checkout.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// The cart is CHECKED_OUT now, so a resubmit finds no active cart.
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/checkout", checkoutBody(quote), accessCookie(t, "user1"))
	require.NoError(t, env.Checkout.Checkout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp transport.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Cart is empty", resp.Error)
}

func TestCheckoutHTTP_StockDropBetweenQuoteAndSubmit(t *testing.T) {
	env := newTestEnv(t)
	quote := seedCheckoutCart(t, env, "user1")

	// Someone else bought most of the stock after the client got its quote.
	require.NoError(t, env.DB.Model(&models.Product{}).
		Where("product_id = ?", "candy_1").
		Update("available_grams", 100).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/checkout", checkoutBody(quote), accessCookie(t, "user1"))
	require.NoError(t, env.Checkout.Checkout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp transport.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Insufficient stock for Cola Bottles", resp.Error)
}
