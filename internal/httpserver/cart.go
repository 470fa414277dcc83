package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/identity"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

const guestCookieMaxAge = 30 * 24 * 60 * 60

type CartHTTP struct {
	Svc       *service.CartService
	JWTSecret []byte
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	id := identity.Resolve(c, h.JWTSecret)
	h.setGuestCookie(c, id)

	view, err := h.Svc.GetCart(ctx, id.UserID)
	if err != nil {
		return respondError(c, l, "get_cart", err)
	}

	return c.JSON(http.StatusOK, transport.CartResponse{Cart: *view})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	id := identity.Resolve(c, h.JWTSecret)
	h.setGuestCookie(c, id)

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "Invalid request body"})
	}

	view, err := h.Svc.AddItem(ctx, id.UserID, c.Param("productId"), req.WeightGrams)
	if err != nil {
		return respondError(c, l, "add_item", err)
	}

	l.Info("add_item_success", "productId", c.Param("productId"))
	return c.JSON(http.StatusOK, transport.CartResponse{Cart: *view, Message: "Item added to cart"})
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	id := identity.Resolve(c, h.JWTSecret)

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "Invalid request body"})
	}

	view, err := h.Svc.UpdateItem(ctx, id.UserID, c.Param("productId"), req.WeightGrams)
	if err != nil {
		return respondError(c, l, "update_item", err)
	}

	l.Info("update_item_success", "productId", c.Param("productId"))
	return c.JSON(http.StatusOK, transport.CartResponse{Cart: *view, Message: "Cart updated"})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	id := identity.Resolve(c, h.JWTSecret)

	view, err := h.Svc.ClearCart(ctx, id.UserID)
	if err != nil {
		return respondError(c, l, "clear_cart", err)
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, transport.CartResponse{Cart: *view, Message: "Cart cleared"})
}

// setGuestCookie pins a guest to their cart across requests. Authenticated
// users carry identity in the token, so no cookie is written for them.
func (h *CartHTTP) setGuestCookie(c echo.Context, id identity.Identity) {
	if !id.Guest {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     "cartId",
		Value:    identity.GuestCookieValue(id.UserID),
		Path:     "/",
		MaxAge:   guestCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
