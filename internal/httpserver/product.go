package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	resp, err := h.Svc.ListProducts(ctx)
	if err != nil {
		return respondError(c, l, "get_products", err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Svc.GetProduct(ctx, c.Param("productId"))
	if err != nil {
		return respondError(c, l, "get_product", err)
	}

	return c.JSON(http.StatusOK, product)
}
