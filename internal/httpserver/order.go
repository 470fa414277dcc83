package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/identity"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

type OrderHTTP struct {
	Svc       *service.OrderService
	JWTSecret []byte
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	userID, err := identity.RequireUser(c, h.JWTSecret)
	if err != nil {
		l.Warn("get_orders_failed", "status", 401, "reason", "unauthenticated")
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: "Unauthorized"})
	}

	resp, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		return respondError(c, l, "get_orders", err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := identity.RequireUser(c, h.JWTSecret)
	if err != nil {
		l.Warn("get_order_failed", "status", 401, "reason", "unauthenticated")
		return c.JSON(http.StatusUnauthorized, transport.ErrorResponse{Error: "Unauthorized"})
	}

	resp, err := h.Svc.GetOrder(ctx, userID, c.Param("orderId"))
	if err != nil {
		return respondError(c, l, "get_order", err)
	}

	return c.JSON(http.StatusOK, resp.Orders[0])
}
