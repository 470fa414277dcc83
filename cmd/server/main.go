package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/config"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/es"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/httpserver"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/logging"
	loggingmw "github.com/floydmoratti/aws-candy-store-infrastructure/internal/middleware/logging"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/mykafka"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/payment"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/pricing"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/repo"
	"github.com/floydmoratti/aws-candy-store-infrastructure/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var events mykafka.EventPublisher
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
		events = producer
	} else {
		logger.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}

	searchHandler := &httpserver.SearchHTTP{Index: cfg.ESIndex}
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		searchHandler.ES = esClient
	} else {
		logger.Warn("ES_URL not set, search disabled")
	}

	store := &repo.GormRepo{DB: db}
	calc := pricing.Calculator{TaxRate: cfg.TaxRate, ShippingCost: cfg.ShippingCost}

	cartSvc := &service.CartService{Repo: store, Events: events}
	checkoutSvc := &service.CheckoutService{
		Repo:      store,
		Gateway:   payment.DemoGateway{},
		Calc:      calc,
		Tolerance: cfg.PriceTolerance,
		Events:    events,
	}
	catalogSvc := &service.CatalogService{Repo: store}
	orderSvc := &service.OrderService{Repo: store}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:     &httpserver.CartHTTP{Svc: cartSvc, JWTSecret: cfg.JWTSecret},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: checkoutSvc, JWTSecret: cfg.JWTSecret},
		ProductHandler:  &httpserver.ProductHTTP{Svc: catalogSvc},
		OrderHandler:    &httpserver.OrderHTTP{Svc: orderSvc, JWTSecret: cfg.JWTSecret},
		SearchHandler:   searchHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
