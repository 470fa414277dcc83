package service

import (
	"errors"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/pricing"
)

// Error kinds, one per failure class the API can report. Handlers map kinds
// to HTTP statuses; nothing above the handler boundary sees raw store errors.
var (
	ErrValidation        = errors.New("validation")         // 400
	ErrAuthRequired      = errors.New("auth required")      // 401
	ErrNotFound          = errors.New("not found")          // 404
	ErrStockInsufficient = errors.New("insufficient stock") // 400
	ErrPaymentRejected   = errors.New("payment rejected")   // 400
	ErrPricingMismatch   = errors.New("pricing mismatch")   // 409
	ErrInventoryConflict = errors.New("inventory conflict") // 409
)

// Error carries the failure kind plus the client-facing message. For pricing
// mismatches it also carries the authoritative server pricing so the client
// can re-display updated totals.
type Error struct {
	Kind    error
	Message string
	Pricing *pricing.Pricing
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
