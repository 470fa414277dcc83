package transport

import (
	"github.com/shopspring/decimal"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/pricing"
)

// Request and response shapes for the HTTP API. Handlers bind and render
// these; services never touch echo types directly.

type AddToCartRequest struct {
	WeightGrams int64 `json:"weightGrams"`
}

type PaymentInfoRequest struct {
	CardName   string `json:"cardName"`
	CardLast4  string `json:"cardLast4"`
	CardExpiry string `json:"cardExpiry"`
}

type CheckoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentInfo     PaymentInfoRequest     `json:"paymentInfo"`
	Pricing         *pricing.Pricing       `json:"pricing"`
}

type CheckoutResponse struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	TotalAmount string `json:"totalAmount"`
	Message     string `json:"message"`
}

// PricingMismatchResponse is the 409 body for a stale client quote. Error is
// always "PRICING_MISMATCH" so clients can branch on it.
type PricingMismatchResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Pricing pricing.Pricing `json:"pricing"`
}

type CartLineView struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	WeightGrams  int64           `json:"weightGrams"`
	PricePerUnit int64           `json:"pricePerUnit"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

type CartView struct {
	CartID      string          `json:"cartId"`
	UserID      string          `json:"userId"`
	Items       []CartLineView  `json:"items"`
	ItemCount   int             `json:"itemCount"`
	TotalWeight int64           `json:"totalWeight"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Cart    CartView `json:"cart"`
	Message string   `json:"message,omitempty"`
}

type ProductStock struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	Price          int64  `json:"price"`
	AvailableGrams int64  `json:"availableGrams"`
}

type ProductsResponse struct {
	Products map[string]ProductStock `json:"products"`
	Count    int                     `json:"count"`
}

type OrdersResponse struct {
	Orders []models.Order `json:"orders"`
	Count  int            `json:"count"`
}

type SearchResponse struct {
	Results []ProductStock `json:"results"`
	Count   int            `json:"count"`
	Total   int64          `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
