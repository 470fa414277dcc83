package httpserver

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service/search"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/transport"
)

type SearchHTTP struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.search_products")

	if h.ES == nil {
		l.Warn("search_failed", "status", 503, "reason", "search disabled")
		return c.JSON(http.StatusServiceUnavailable, transport.ErrorResponse{Error: "Search is unavailable"})
	}

	query := c.QueryParam("q")
	from := parseIntDefault(c.QueryParam("from"), 0)
	size := parseIntDefault(c.QueryParam("size"), 20)

	total, results, err := search.Search(ctx, h.ES, h.Index, query, from, size)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "Internal server error"})
	}

	return c.JSON(http.StatusOK, transport.SearchResponse{Results: results, Count: len(results), Total: total})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
