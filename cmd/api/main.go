package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/ratelimit"
	auditrepo "storefront/internal/repository/audit"
	orderrepo "storefront/internal/repository/order"
	paymentrepo "storefront/internal/repository/payment"
	productrepo "storefront/internal/repository/product"
	auditsvc "storefront/internal/service/audit"
	"storefront/internal/service/identity"
	ordersvc "storefront/internal/service/order"
	paymentsvc "storefront/internal/service/payment"
	productsvc "storefront/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	paymentRepo := paymentrepo.NewPostgres(dbpool, logger)
	auditRepo := auditrepo.NewPostgres(dbpool)

	limiter, closeLimiter, err := buildLimiter(ctx, cfg, orderRepo, logger)
	if err != nil {
		logger.Fatalf("init rate limiter: %v", err)
	}
	defer closeLimiter()

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Printf("publishing events to topic=%s brokers=%v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Printf("close publisher: %v", err)
		}
	}()

	if cfg.JWTSecret == "" {
		logger.Printf("JWT_SECRET not set, every request is served as a guest")
	}

	productService := productsvc.New(productRepo)
	orderService := ordersvc.New(orderRepo, productService, limiter, publisher, logger)
	paymentService := paymentsvc.New(paymentRepo, orderRepo, cfg.Currency, publisher, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Identity:            identity.NewService(cfg.JWTSecret),
		ProductSvc:          productService,
		OrderSvc:            orderService,
		PaymentSvc:          paymentService,
		AuditSvc:            auditsvc.New(auditRepo),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func buildLimiter(ctx context.Context, cfg config.Config, orders orderrepo.Repository, logger *log.Logger) (ratelimit.Limiter, func(), error) {
	switch cfg.RateLimitBackend {
	case "redis":
		client, err := ratelimit.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Printf("anonymous order limit %d per %s (redis)", cfg.AnonymousOrderLimit, cfg.AnonymousOrderWindow)
		return ratelimit.NewRedis(client, cfg.AnonymousOrderLimit, cfg.AnonymousOrderWindow), func() { _ = client.Close() }, nil
	case "memory":
		logger.Printf("anonymous order limit %d per %s (in-process)", cfg.AnonymousOrderLimit, cfg.AnonymousOrderWindow)
		return ratelimit.NewMemory(cfg.AnonymousOrderLimit, cfg.AnonymousOrderWindow), func() {}, nil
	case "postgres":
		logger.Printf("anonymous order limit %d per %s (postgres)", cfg.AnonymousOrderLimit, cfg.AnonymousOrderWindow)
		return ratelimit.NewOrderCount(orders, cfg.AnonymousOrderLimit, cfg.AnonymousOrderWindow), func() {}, nil
	}
	return nil, nil, errors.New("unknown RATE_LIMIT_BACKEND " + cfg.RateLimitBackend)
}
