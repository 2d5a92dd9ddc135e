package httpserver

import (
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Identity == nil || deps.ProductSvc == nil || deps.OrderSvc == nil || deps.PaymentSvc == nil || deps.AuditSvc == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// Provider callbacks authenticate by signature, not bearer token.
	router.POST("/webhooks/stripe", stripeWebhookHandler(deps.PaymentSvc, deps.StripeWebhookSecret, logger))

	api := router.Group("/")
	api.Use(identityMiddleware(deps.Identity))

	api.GET("/products", listProductsHandler(deps.ProductSvc, logger))
	api.GET("/products/:id", getProductHandler(deps.ProductSvc, logger))

	api.POST("/orders", createOrderHandler(deps.OrderSvc, logger))
	api.GET("/me/orders", myOrdersHandler(deps.OrderSvc, logger))
	api.GET("/orders/:id", getOrderHandler(deps.OrderSvc, logger))
	api.GET("/orders/:id/items", orderItemsHandler(deps.OrderSvc, logger))
	api.GET("/orders/:id/payments", orderPaymentsHandler(deps.PaymentSvc, logger))
	api.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc, logger))

	api.POST("/payments", createPaymentHandler(deps.PaymentSvc, logger))
	api.PATCH("/payments/:id/status", updatePaymentStatusHandler(deps.PaymentSvc, logger))

	api.GET("/admin/orders", adminOrdersHandler(deps.OrderSvc, logger))
	api.GET("/admin/audit-logs", auditLogsHandler(deps.AuditSvc, logger))

	return router, nil
}
