package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
	paymentsvc "storefront/internal/service/payment"

	"github.com/shopspring/decimal"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// stubResolver treats the token text as "<role>:<user>".
type stubResolver struct{}

func (stubResolver) Resolve(token string) (domain.Caller, error) {
	if token == "" {
		return domain.AnonymousCaller(), nil
	}
	role, user, ok := strings.Cut(token, ":")
	if !ok {
		return domain.Caller{}, errors.New("bad token")
	}
	return domain.Caller{UserID: user, Role: role}, nil
}

type stubProductService struct {
	products []domain.Product
	err      error
}

func (s *stubProductService) List(context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubOrderService struct {
	order     *domain.Order
	orders    []domain.Order
	items     []domain.OrderItem
	err       error
	gotCaller domain.Caller
	gotCreate ordersvc.CreateInput
	gotFilter domain.OrderFilter
	gotLimit  int
	gotOffset int
	gotStatus string
}

func (s *stubOrderService) CreateOrder(_ context.Context, caller domain.Caller, in ordersvc.CreateInput) (*domain.Order, error) {
	s.gotCaller, s.gotCreate = caller, in
	return s.order, s.err
}

func (s *stubOrderService) GetUserOrders(_ context.Context, caller domain.Caller, limit int) ([]domain.Order, error) {
	s.gotCaller, s.gotLimit = caller, limit
	return s.orders, s.err
}

func (s *stubOrderService) GetOrderByID(_ context.Context, caller domain.Caller, _ string) (*domain.Order, error) {
	s.gotCaller = caller
	return s.order, s.err
}

func (s *stubOrderService) GetOrderItems(_ context.Context, caller domain.Caller, _ string) ([]domain.OrderItem, error) {
	s.gotCaller = caller
	return s.items, s.err
}

func (s *stubOrderService) GetAllOrders(_ context.Context, caller domain.Caller, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error) {
	s.gotCaller, s.gotFilter, s.gotLimit, s.gotOffset = caller, filter, limit, offset
	return s.orders, s.err
}

func (s *stubOrderService) UpdateOrderStatus(_ context.Context, caller domain.Caller, _ string, status string) (*domain.Order, error) {
	s.gotCaller, s.gotStatus = caller, status
	return s.order, s.err
}

type providerUpdate struct {
	caller     domain.Caller
	method     domain.PaymentMethod
	providerID string
	status     domain.PaymentStatus
	details    map[string]interface{}
}

type stubPaymentService struct {
	payment    *domain.Payment
	payments   []domain.Payment
	err        error
	gotCreate  paymentsvc.CreateInput
	gotCaller  domain.Caller
	byProvider []providerUpdate
}

func (s *stubPaymentService) CreatePayment(_ context.Context, caller domain.Caller, in paymentsvc.CreateInput) (*domain.Payment, error) {
	s.gotCaller, s.gotCreate = caller, in
	return s.payment, s.err
}

func (s *stubPaymentService) UpdatePaymentStatus(_ context.Context, caller domain.Caller, _ string, _ string, _ map[string]interface{}) (*domain.Payment, error) {
	s.gotCaller = caller
	return s.payment, s.err
}

func (s *stubPaymentService) UpdateStatusByProvider(_ context.Context, caller domain.Caller, method domain.PaymentMethod, providerID string, status domain.PaymentStatus, details map[string]interface{}) (*domain.Payment, error) {
	s.byProvider = append(s.byProvider, providerUpdate{caller: caller, method: method, providerID: providerID, status: status, details: details})
	return s.payment, s.err
}

func (s *stubPaymentService) ListOrderPayments(_ context.Context, caller domain.Caller, _ string) ([]domain.Payment, error) {
	s.gotCaller = caller
	return s.payments, s.err
}

type stubAuditService struct {
	entries []domain.AuditEntry
	err     error
}

func (s *stubAuditService) List(context.Context, domain.Caller, string, int, int) ([]domain.AuditEntry, error) {
	return s.entries, s.err
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "4a1f2d4e-2f54-4f4a-9a53-2a8b0b3b1c01",
		Email:         "guest@example.com",
		FullName:      "Guest Shopper",
		Address:       domain.Address{Street: "1 Mill Lane", City: "York", Postcode: "YO1 7HH"},
		Subtotal:      decimal.RequireFromString("31"),
		DeliveryTotal: decimal.RequireFromString("5"),
		Total:         decimal.RequireFromString("36"),
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCard,
	}
}

type testDeps struct {
	products *stubProductService
	orders   *stubOrderService
	payments *stubPaymentService
	audit    *stubAuditService
}

func newTestDeps() (Deps, *testDeps) {
	td := &testDeps{
		products: &stubProductService{},
		orders:   &stubOrderService{},
		payments: &stubPaymentService{},
		audit:    &stubAuditService{},
	}
	return Deps{
		Identity:   stubResolver{},
		ProductSvc: td.products,
		OrderSvc:   td.orders,
		PaymentSvc: td.payments,
		AuditSvc:   td.audit,
	}, td
}
