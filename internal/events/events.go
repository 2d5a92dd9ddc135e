// Package events publishes order and payment lifecycle changes after they
// commit. Delivery is best-effort.
package events

import (
	"context"
	"time"
)

const (
	OrderCreated         = "order.created"
	OrderStatusChanged   = "order.status_changed"
	PaymentCreated       = "payment.created"
	PaymentStatusChanged = "payment.status_changed"
)

// Event is the wire payload. Messages are keyed by OrderID so every change to
// one order lands on the same partition.
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	PaymentID  string    `json:"paymentId,omitempty"`
	Status     string    `json:"status,omitempty"`
	Previous   string    `json:"previousStatus,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Anonymous  bool      `json:"anonymous,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
