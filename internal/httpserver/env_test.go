package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/payment"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/pricing"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/repo"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	E        *echo.Echo
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Cart     *CartHTTP
	Checkout *CheckoutHTTP
	Product  *ProductHTTP
	Order    *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Cart{}, &models.Product{}, &models.Order{}))

	store := &repo.GormRepo{DB: db}
	calc := pricing.Calculator{
		TaxRate:      decimal.RequireFromString("0.08"),
		ShippingCost: decimal.RequireFromString("2.99"),
	}

	cartSvc := &service.CartService{Repo: store}
	checkoutSvc := &service.CheckoutService{
		Repo:      store,
		Gateway:   payment.DemoGateway{},
		Calc:      calc,
		Tolerance: decimal.RequireFromString("0.01"),
	}

	return &testEnv{
		E:        echo.New(),
		DB:       db,
		Repo:     store,
		Cart:     &CartHTTP{Svc: cartSvc, JWTSecret: testSecret},
		Checkout: &CheckoutHTTP{Svc: checkoutSvc, JWTSecret: testSecret},
		Product:  &ProductHTTP{Svc: &service.CatalogService{Repo: store}},
		Order:    &OrderHTTP{Svc: &service.OrderService{Repo: store}, JWTSecret: testSecret},
	}
}

func (env *testEnv) seedProduct(t *testing.T, id, name string, price, grams int64) {
	t.Helper()
	require.NoError(t, env.DB.Create(&models.Product{
		ProductID:      id,
		ProductName:    name,
		Price:          price,
		AvailableGrams: grams,
		IsActive:       true,
	}).Error)
}

func (env *testEnv) seedCart(t *testing.T, cartID, userID string, items models.CartItems) {
	t.Helper()
	require.NoError(t, env.DB.Create(&models.Cart{
		CartID: cartID,
		UserID: userID,
		Items:  items,
		Status: models.CartStatusActive,
	}).Error)
}

func accessCookie(t *testing.T, sub string) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: "accessToken", Value: s, Path: "/"}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.SetPath(path)
	return rec, c
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
