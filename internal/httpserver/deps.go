package httpserver

import (
	"context"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
	paymentsvc "storefront/internal/service/payment"
)

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, caller domain.Caller, in ordersvc.CreateInput) (*domain.Order, error)
	GetUserOrders(ctx context.Context, caller domain.Caller, limit int) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, caller domain.Caller, id string) (*domain.Order, error)
	GetOrderItems(ctx context.Context, caller domain.Caller, orderID string) ([]domain.OrderItem, error)
	GetAllOrders(ctx context.Context, caller domain.Caller, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, caller domain.Caller, id, status string) (*domain.Order, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, caller domain.Caller, in paymentsvc.CreateInput) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, caller domain.Caller, id, status string, details map[string]interface{}) (*domain.Payment, error)
	UpdateStatusByProvider(ctx context.Context, caller domain.Caller, method domain.PaymentMethod, providerID string, status domain.PaymentStatus, details map[string]interface{}) (*domain.Payment, error)
	ListOrderPayments(ctx context.Context, caller domain.Caller, orderID string) ([]domain.Payment, error)
}

type AuditService interface {
	List(ctx context.Context, caller domain.Caller, recordID string, limit, offset int) ([]domain.AuditEntry, error)
}

type CallerResolver interface {
	Resolve(token string) (domain.Caller, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	Identity   CallerResolver
	ProductSvc ProductService
	OrderSvc   OrderService
	PaymentSvc PaymentService
	AuditSvc   AuditService

	CORSAllowedOrigins  []string
	StripeWebhookSecret string
}
