package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
)

// CartItem is one line of a cart. PriceAtAdd is frozen at the moment the item
// entered the cart (cents per 100g) and is never re-read from the catalog.
type CartItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	WeightGrams int64  `json:"weightGrams"`
	PriceAtAdd  int64  `json:"priceAtAdd"`
}

type CartItems map[string]CartItem

type Cart struct {
	CartID    string     `gorm:"primaryKey"              json:"cartId"`
	UserID    string     `gorm:"index;not null"          json:"userId"`
	Items     CartItems  `gorm:"serializer:json"         json:"items"`
	Status    CartStatus `gorm:"not null;default:ACTIVE" json:"status"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ExpiresAt int64      `json:"expiresAt"`
}

func (Cart) TableName() string { return "carts" }

// Product.Price is the catalog reference price in cents per 100g, distinct
// from a cart line's frozen PriceAtAdd.
type Product struct {
	ProductID      string    `gorm:"primaryKey"                          json:"productId"`
	ProductName    string    `gorm:"not null"                            json:"productName"`
	Price          int64     `gorm:"not null"                            json:"price"`
	AvailableGrams int64     `gorm:"not null;check:available_grams >= 0" json:"availableGrams"`
	IsActive       bool      `gorm:"not null;default:true"               json:"isActive"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

type OrderStatus string

const OrderStatusPaid OrderStatus = "PAID"

// OrderItem is a frozen copy of a cart line plus its computed line total.
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	WeightGrams int64           `json:"weightGrams"`
	PriceAtAdd  int64           `json:"priceAtAdd"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type OrderItems map[string]OrderItem

type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

// PaymentCard keeps only what the order record needs for display, never a
// full card number.
type PaymentCard struct {
	CardLast4  string `json:"cardLast4"`
	CardExpiry string `json:"cardExpiry"`
}

// Order is write-once for its financial fields: created inside the checkout
// transaction, read-only afterwards.
type Order struct {
	OrderID         string          `gorm:"primaryKey"      json:"orderId"`
	UserID          string          `gorm:"index;not null"  json:"userId"`
	Items           OrderItems      `gorm:"serializer:json" json:"items"`
	Subtotal        decimal.Decimal `gorm:"type:numeric"    json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:numeric"    json:"tax"`
	Shipping        decimal.Decimal `gorm:"type:numeric"    json:"shipping"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric"    json:"totalAmount"`
	Status          OrderStatus     `gorm:"not null"        json:"status"`
	ShippingAddress ShippingAddress `gorm:"serializer:json" json:"shippingAddress"`
	PaymentProvider string          `json:"paymentProvider"`
	PaymentRef      string          `json:"paymentRef"`
	PaymentCard     PaymentCard     `gorm:"serializer:json" json:"paymentInfo"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }
