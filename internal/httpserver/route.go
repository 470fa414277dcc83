package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	CartHandler     *CartHTTP
	CheckoutHandler *CheckoutHTTP
	ProductHandler  *ProductHTTP
	OrderHandler    *OrderHTTP
	SearchHandler   *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:productId", d.ProductHandler.GetProduct)
	api.GET("/search", d.SearchHandler.SearchProducts)

	api.GET("/cart", d.CartHandler.GetCart)
	api.POST("/cart/items/:productId", d.CartHandler.AddItem)
	api.PUT("/cart/items/:productId", d.CartHandler.UpdateItem)
	api.DELETE("/cart", d.CartHandler.ClearCart)

	api.POST("/checkout", d.CheckoutHandler.Checkout)

	api.GET("/orders", d.OrderHandler.GetOrders)
	api.GET("/orders/:orderId", d.OrderHandler.GetOrder)
}
