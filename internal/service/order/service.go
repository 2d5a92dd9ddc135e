package order

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/ratelimit"
	orderrepo "storefront/internal/repository/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service struct {
	repo      orderrepo.Repository
	validator *Validator
	limiter   ratelimit.Limiter
	publisher events.Publisher
	logger    *log.Logger
}

func New(repo orderrepo.Repository, catalog Catalog, limiter ratelimit.Limiter, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		repo:      repo,
		validator: NewValidator(catalog),
		limiter:   limiter,
		publisher: publisher,
		logger:    logger,
	}
}

type CreateInput struct {
	Email         string
	FullName      string
	Address       domain.Address
	PaymentMethod string
	Subtotal      decimal.Decimal
	DeliveryTotal decimal.Decimal
	Total         decimal.Decimal
	Items         []domain.LineRequest
}

// CreateOrder validates the cart against the catalog, applies the anonymous
// rate limit and stores the order with its items and audit entry.
func (s *Service) CreateOrder(ctx context.Context, caller domain.Caller, in CreateInput) (*domain.Order, error) {
	method, err := in.normalize()
	if err != nil {
		return nil, err
	}

	totals, err := s.validator.Validate(ctx, in.Items, domain.Totals{
		Subtotal: in.Subtotal,
		Delivery: in.DeliveryTotal,
		Total:    in.Total,
	})
	if err != nil {
		s.logger.Printf("order service: rejected cart lines=%d: %v", len(in.Items), err)
		return nil, err
	}
	if totals.Total.GreaterThan(domain.MaxAmount) {
		return nil, domain.InvalidInput("order total exceeds %s", domain.MaxAmount.StringFixed(2))
	}

	if err := s.limiter.Allow(ctx, caller); err != nil {
		if errors.Is(err, domain.ErrRateLimitExceeded) {
			s.logger.Printf("order service: anonymous order limit reached")
		}
		return nil, err
	}

	o, err := s.repo.Create(ctx, orderrepo.CreateInput{
		UserID:        caller.UserRef(),
		Email:         in.Email,
		FullName:      in.FullName,
		Address:       in.Address,
		PaymentMethod: method,
		Lines:         in.Items,
		Totals:        totals,
	})
	if err != nil {
		return nil, domain.WrapStorage("create order", err)
	}

	s.publish(ctx, events.Event{
		Type:      events.OrderCreated,
		OrderID:   o.ID,
		Status:    string(o.Status),
		Amount:    o.Total.StringFixed(2),
		Anonymous: o.IsAnonymous(),
	})
	return o, nil
}

func (in *CreateInput) normalize() (domain.PaymentMethod, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Address.Street = strings.TrimSpace(in.Address.Street)
	in.Address.City = strings.TrimSpace(in.Address.City)
	in.Address.Postcode = strings.TrimSpace(in.Address.Postcode)

	switch {
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return "", domain.InvalidInput("valid email required")
	case in.FullName == "":
		return "", domain.InvalidInput("full name required")
	case in.Address.Street == "" || in.Address.City == "" || in.Address.Postcode == "":
		return "", domain.InvalidInput("street, city and postcode required")
	case len(in.Items) == 0:
		return "", domain.InvalidInput("at least one item required")
	}
	method, ok := domain.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return "", domain.InvalidInput("unknown payment method %q", in.PaymentMethod)
	}
	for i, line := range in.Items {
		if line.Quantity <= 0 || line.Quantity > domain.MaxLineQuantity {
			return "", domain.InvalidInput("item %d: quantity must be between 1 and %d", i+1, domain.MaxLineQuantity)
		}
		if strings.TrimSpace(line.ProductID) == "" {
			return "", domain.InvalidInput("item %d: product id required", i+1)
		}
	}
	return method, nil
}

// GetUserOrders lists the caller's own orders, newest first.
func (s *Service) GetUserOrders(ctx context.Context, caller domain.Caller, limit int) ([]domain.Order, error) {
	if caller.UserID == "" {
		return nil, domain.ErrAccessDenied
	}
	orders, err := s.repo.ListByUser(ctx, caller.UserID, clampLimit(limit))
	if err != nil {
		return nil, domain.WrapStorage("list user orders", err)
	}
	return orders, nil
}

// GetOrderByID hides orders the caller may not read behind ErrOrderNotFound.
func (s *Service) GetOrderByID(ctx context.Context, caller domain.Caller, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrOrderNotFound
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.WrapStorage("get order", err)
	}
	if !caller.CanAccessOrder(*o) {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) GetOrderItems(ctx context.Context, caller domain.Caller, orderID string) ([]domain.OrderItem, error) {
	if _, err := s.GetOrderByID(ctx, caller, orderID); err != nil {
		return nil, err
	}
	items, err := s.repo.Items(ctx, orderID)
	if err != nil {
		return nil, domain.WrapStorage("list order items", err)
	}
	return items, nil
}

func (s *Service) GetAllOrders(ctx context.Context, caller domain.Caller, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error) {
	if !caller.IsElevated() {
		return nil, domain.ErrForbidden
	}
	if offset < 0 {
		offset = 0
	}
	orders, err := s.repo.List(ctx, filter, clampLimit(limit), offset)
	if err != nil {
		return nil, domain.WrapStorage("list orders", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order one step along its state machine.
// Repeating the current status is a no-op.
func (s *Service) UpdateOrderStatus(ctx context.Context, caller domain.Caller, id, status string) (*domain.Order, error) {
	if !caller.IsElevated() {
		return nil, domain.ErrForbidden
	}
	next, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, domain.InvalidInput("unknown order status %q", status)
	}
	current, err := s.GetOrderByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if current.Status == next {
		return current, nil
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	o, err := s.repo.UpdateStatus(ctx, id, current.Status, next, caller.UserRef())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.WrapStorage("update order status", err)
	}
	s.logger.Printf("order service: status id=%s %s->%s role=%s", id, current.Status, next, caller.Role)

	s.publish(ctx, events.Event{
		Type:     events.OrderStatusChanged,
		OrderID:  o.ID,
		Status:   string(o.Status),
		Previous: string(current.Status),
	})
	return o, nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Printf("order service: publish %s order=%s: %v", e.Type, e.OrderID, err)
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}
