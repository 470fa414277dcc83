package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
)

var (
	hundredths = decimal.New(1, -2) // 0.01
	perUnit    = decimal.NewFromInt(10000)
)

// Pricing holds the four order totals in currency units.
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Calculator derives authoritative totals from stored cart lines. Pure, no
// I/O; malformed input is the caller's problem.
type Calculator struct {
	TaxRate      decimal.Decimal
	ShippingCost decimal.Decimal
}

// LineTotal converts a frozen unit price (cents per 100g) and a weight into a
// currency amount, rounded half-up to 2 decimals.
func LineTotal(priceAtAdd, weightGrams int64) decimal.Decimal {
	return decimal.NewFromInt(priceAtAdd).
		Mul(decimal.NewFromInt(weightGrams)).
		Div(perUnit).
		Round(2)
}

// Quote prices every cart line and aggregates the totals. Each line is
// rounded before summation; the rounding order is load-bearing and must not
// be changed to round-after-sum.
func (c Calculator) Quote(items models.CartItems) (Pricing, models.OrderItems) {
	subtotal := decimal.Zero
	orderItems := make(models.OrderItems, len(items))

	for productID, item := range items {
		totalPrice := LineTotal(item.PriceAtAdd, item.WeightGrams)
		orderItems[productID] = models.OrderItem{
			ProductID:   productID,
			ProductName: item.ProductName,
			WeightGrams: item.WeightGrams,
			PriceAtAdd:  item.PriceAtAdd,
			TotalPrice:  totalPrice,
		}
		subtotal = subtotal.Add(totalPrice)
	}

	tax := subtotal.Mul(c.TaxRate).Round(2)
	shipping := c.ShippingCost
	total := subtotal.Add(tax).Add(shipping).Round(2)

	return Pricing{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    total,
	}, orderItems
}

// Reconcile compares client-declared totals against server-computed ones,
// each of the four fields independently within tolerance. Client prices are
// never trusted for settlement, only compared.
func Reconcile(server, client Pricing, tolerance decimal.Decimal) bool {
	return within(server.Subtotal, client.Subtotal, tolerance) &&
		within(server.Tax, client.Tax, tolerance) &&
		within(server.Shipping, client.Shipping, tolerance) &&
		within(server.Total, client.Total, tolerance)
}

func within(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
