package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/identity"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

type CheckoutHTTP struct {
	Svc       *service.CheckoutService
	JWTSecret []byte
}

// Checkout requires an authenticated caller; guests get 401 before any data
// access happens.
func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.checkout")

	userID, err := identity.RequireUser(c, h.JWTSecret)
	if err != nil {
		l.Warn("checkout_failed", "status", 401, "reason", "unauthenticated")
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: "Unauthorized"})
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_failed", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "Invalid checkout data"})
	}

	result, err := h.Svc.Checkout(ctx, userID, req)
	if err != nil {
		return respondError(c, l, "checkout", err)
	}

	l.Info("checkout_success", "orderId", result.OrderID, "totalAmount", result.TotalAmount.StringFixed(2))
	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		OrderID:     result.OrderID,
		Status:      string(models.OrderStatusPaid),
		TotalAmount: result.TotalAmount.StringFixed(2),
		Message:     "Order placed successfully",
	})
}
