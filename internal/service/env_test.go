package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/models"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/payment"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/pricing"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/repo"
)

type testEnv struct {
	Repo     *repo.GormRepo
	Events   *eventRecorder
	Cart     *CartService
	Checkout *CheckoutService
	Gateway  *stubGateway
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
	events := &eventRecorder{}
	gateway := &stubGateway{}

	return &testEnv{
		Repo:   store,
		Events: events,
		Cart:   &CartService{Repo: store, Events: events},
		Checkout: &CheckoutService{
			Repo:      store,
			Gateway:   gateway,
			Calc:      pricing.Calculator{TaxRate: decimal.RequireFromString("0.08"), ShippingCost: decimal.RequireFromString("2.99")},
			Tolerance: decimal.RequireFromString("0.01"),
			Events:    events,
		},
		Gateway: gateway,
	}
}

func (env *testEnv) seedProduct(t *testing.T, id, name string, price, grams int64) {
	t.Helper()
	require.NoError(t, env.Repo.DB.Create(&models.Product{
		ProductID:      id,
		ProductName:    name,
		Price:          price,
		AvailableGrams: grams,
		IsActive:       true,
	}).Error)
}

func (env *testEnv) seedCart(t *testing.T, cartID, userID string, items models.CartItems) {
	t.Helper()
	require.NoError(t, env.Repo.DB.Create(&models.Cart{
		CartID: cartID,
		UserID: userID,
		Items:  items,
		Status: models.CartStatusActive,
	}).Error)
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]interface{}
}

// eventRecorder captures published events in memory.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(_ context.Context, topic, key string, event interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := event.(map[string]interface{})
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (r *eventRecorder) byType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.Event["type"] == eventType {
			out = append(out, e)
		}
	}
	return out
}

// stubGateway approves every charge unless told otherwise, and can run a hook
// between the read phase and the commit phase of a checkout.
type stubGateway struct {
	Decline      error
	BeforeReturn func()

	mu      sync.Mutex
	charges []decimal.Decimal
}

func (g *stubGateway) Charge(_ context.Context, _ payment.Info, amount decimal.Decimal) (payment.Result, error) {
	if g.Decline != nil {
		return payment.Result{}, g.Decline
	}
	if g.BeforeReturn != nil {
		g.BeforeReturn()
	}
	g.mu.Lock()
	g.charges = append(g.charges, amount)
	g.mu.Unlock()
	return payment.Result{Provider: "TEST_PAYMENT", Reference: "test_ref_1"}, nil
}

func (g *stubGateway) chargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}
