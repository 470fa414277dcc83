package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

// respondError maps a service error to its HTTP shape. Anything that is not a
// *service.Error is an internal fault and stays opaque to the client.
func respondError(c echo.Context, l *slog.Logger, op string, err error) error {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		l.Error(op+"_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Internal server error"})
	}

	status := statusFor(svcErr.Kind)

	if errors.Is(svcErr.Kind, service.ErrPricingMismatch) && svcErr.Pricing != nil {
		l.Warn(op+"_pricing_mismatch", "status", status)
		return c.JSON(status, transport.PricingMismatchResponse{
			Error:   "PRICING_MISMATCH",
			Message: svcErr.Message,
			Pricing: *svcErr.Pricing,
		})
	}

	if status >= 500 {
		l.Error(op+"_error", "status", status, "error", err)
	} else {
		l.Warn(op+"_failed", "status", status, "reason", svcErr.Message)
	}
	return c.JSON(status, transport.ErrorResponse{Error: svcErr.Message})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, service.ErrValidation),
		errors.Is(kind, service.ErrStockInsufficient),
		errors.Is(kind, service.ErrPaymentRejected):
		return http.StatusBadRequest
	case errors.Is(kind, service.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(kind, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, service.ErrPricingMismatch),
		errors.Is(kind, service.ErrInventoryConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
