package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDelivered},
}

// ParseOrderStatus normalizes s and reports whether it names a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether an order may move from s to next in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPayPal PaymentMethod = "paypal"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PaymentMethodCard, PaymentMethodPayPal:
		return m, true
	}
	return "", false
}

// Address is the shipping address captured at checkout.
type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

// Order is an immutable purchase record; only Status changes after creation.
// A nil UserID marks a guest checkout.
type Order struct {
	ID            string          `json:"id"`
	UserID        *string         `json:"userId,omitempty"`
	Email         string          `json:"email"`
	FullName      string          `json:"fullName"`
	Address       Address         `json:"address"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryTotal decimal.Decimal `json:"deliveryTotal"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Items         []OrderItem     `json:"items,omitempty"`
}

func (o Order) IsAnonymous() bool {
	return o.UserID == nil
}

// OrderItem freezes the product name, price and delivery charge at order time.
// ProductID becomes nil once the product is deleted from the catalog.
type OrderItem struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"orderId"`
	ProductID      *string         `json:"productId,omitempty"`
	ProductName    string          `json:"productName"`
	ProductPrice   decimal.Decimal `json:"productPrice"`
	Quantity       int             `json:"quantity"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// OrderFilter narrows the admin order listing. Zero values match everything.
type OrderFilter struct {
	Status        OrderStatus
	PaymentMethod PaymentMethod
	Email         string
}
