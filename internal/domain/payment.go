package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	st := PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return st, true
	}
	return "", false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment links an order to a provider transaction. Amount is copied from the
// order total; ProviderDetails is stored verbatim and never interpreted.
type Payment struct {
	ID              string                 `json:"id"`
	OrderID         string                 `json:"orderId"`
	PaymentMethod   PaymentMethod          `json:"paymentMethod"`
	PaymentID       string                 `json:"paymentId"`
	Status          PaymentStatus          `json:"status"`
	Amount          decimal.Decimal        `json:"amount"`
	Currency        string                 `json:"currency"`
	ProviderDetails map[string]interface{} `json:"providerDetails,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}
