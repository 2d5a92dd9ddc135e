package payment

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/events"
	paymentrepo "storefront/internal/repository/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderReader interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

type Service struct {
	repo      paymentrepo.Repository
	orders    orderReader
	currency  string
	publisher events.Publisher
	logger    *log.Logger
}

func New(repo paymentrepo.Repository, orders orderReader, currency string, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{repo: repo, orders: orders, currency: currency, publisher: publisher, logger: logger}
}

type CreateInput struct {
	OrderID         string
	PaymentMethod   string
	PaymentID       string
	Amount          decimal.Decimal
	Status          string
	ProviderDetails map[string]interface{}
}

// CreatePayment records a provider transaction against an order. The stored
// amount is always the order total. Only elevated callers may record a
// status other than pending.
func (s *Service) CreatePayment(ctx context.Context, caller domain.Caller, in CreateInput) (*domain.Payment, error) {
	method, ok := domain.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return nil, domain.InvalidInput("unknown payment method %q", in.PaymentMethod)
	}
	providerID := strings.TrimSpace(in.PaymentID)
	if providerID == "" {
		return nil, domain.InvalidInput("payment id required")
	}
	status := domain.PaymentStatusPending
	if strings.TrimSpace(in.Status) != "" {
		if status, ok = domain.ParsePaymentStatus(in.Status); !ok {
			return nil, domain.InvalidInput("unknown payment status %q", in.Status)
		}
	}

	o, err := s.loadOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessOrder(*o) {
		return nil, domain.ErrAccessDenied
	}
	if !domain.WithinTolerance(in.Amount, o.Total) {
		s.logger.Printf("payment service: amount mismatch order=%s", o.ID)
		return nil, &domain.MismatchError{Field: "amount", Claimed: in.Amount, Calculated: o.Total, Err: domain.ErrAmountMismatch}
	}
	if status != domain.PaymentStatusPending && !caller.IsElevated() {
		return nil, domain.ErrForbidden
	}

	res, err := s.repo.Create(ctx, paymentrepo.CreateInput{
		OrderID:         o.ID,
		PaymentMethod:   method,
		PaymentID:       providerID,
		Status:          status,
		Amount:          o.Total,
		Currency:        s.currency,
		ProviderDetails: in.ProviderDetails,
		Actor:           caller.UserRef(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.WrapStorage("create payment", err)
	}

	s.publishResult(ctx, res, events.PaymentCreated, "")
	return res.Payment, nil
}

// UpdatePaymentStatus moves a payment along its state machine. Completing a
// payment marks a pending order paid.
func (s *Service) UpdatePaymentStatus(ctx context.Context, caller domain.Caller, id, status string, details map[string]interface{}) (*domain.Payment, error) {
	if !caller.IsElevated() {
		return nil, domain.ErrForbidden
	}
	next, ok := domain.ParsePaymentStatus(status)
	if !ok {
		return nil, domain.InvalidInput("unknown payment status %q", status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrPaymentNotFound
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPaymentNotFound, "get payment")
	}
	return s.transition(ctx, caller, p, next, details)
}

// UpdateStatusByProvider is UpdatePaymentStatus keyed by the provider's
// transaction id, for webhook handlers.
func (s *Service) UpdateStatusByProvider(ctx context.Context, caller domain.Caller, method domain.PaymentMethod, providerID string, status domain.PaymentStatus, details map[string]interface{}) (*domain.Payment, error) {
	if !caller.IsElevated() {
		return nil, domain.ErrForbidden
	}
	p, err := s.repo.GetByProvider(ctx, method, providerID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPaymentNotFound, "get payment by provider")
	}
	return s.transition(ctx, caller, p, status, details)
}

// ListOrderPayments follows the order read rules.
func (s *Service) ListOrderPayments(ctx context.Context, caller domain.Caller, orderID string) ([]domain.Payment, error) {
	o, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessOrder(*o) {
		return nil, domain.ErrOrderNotFound
	}
	payments, err := s.repo.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, domain.WrapStorage("list payments", err)
	}
	return payments, nil
}

func (s *Service) transition(ctx context.Context, caller domain.Caller, p *domain.Payment, next domain.PaymentStatus, details map[string]interface{}) (*domain.Payment, error) {
	if p.Status != next && !p.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}
	res, err := s.repo.UpdateStatus(ctx, paymentrepo.UpdateStatusInput{
		ID:              p.ID,
		From:            p.Status,
		To:              next,
		ProviderDetails: details,
		Actor:           caller.UserRef(),
	})
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPaymentNotFound, "update payment status")
	}
	if p.Status == next {
		return res.Payment, nil
	}
	s.logger.Printf("payment service: status id=%s %s->%s order_paid=%t", p.ID, p.Status, next, res.PaidOrder != nil)
	s.publishResult(ctx, res, events.PaymentStatusChanged, string(p.Status))
	return res.Payment, nil
}

func (s *Service) loadOrder(ctx context.Context, id string) (*domain.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrOrderNotFound
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrOrderNotFound, "get order")
	}
	return o, nil
}

func (s *Service) publishResult(ctx context.Context, res *paymentrepo.Result, eventType, previous string) {
	p := res.Payment
	s.publish(ctx, events.Event{
		Type:      eventType,
		OrderID:   p.OrderID,
		PaymentID: p.ID,
		Status:    string(p.Status),
		Previous:  previous,
		Amount:    p.Amount.StringFixed(2),
	})
	if res.PaidOrder != nil {
		s.publish(ctx, events.Event{
			Type:     events.OrderStatusChanged,
			OrderID:  res.PaidOrder.ID,
			Status:   string(res.PaidOrder.Status),
			Previous: string(domain.OrderStatusPending),
		})
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Printf("payment service: publish %s order=%s: %v", e.Type, e.OrderID, err)
	}
}

func notFoundAs(err, target error, op string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return target
	}
	return domain.WrapStorage(op, err)
}
