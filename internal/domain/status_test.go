package domain

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentStatus
		ok       bool
	}{
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusCompleted, PaymentStatusRefunded, true},
		{PaymentStatusPending, PaymentStatusRefunded, false},
		{PaymentStatusFailed, PaymentStatusCompleted, false},
		{PaymentStatusRefunded, PaymentStatusCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestParseStatusNormalizes(t *testing.T) {
	if st, ok := ParseOrderStatus(" Paid "); !ok || st != OrderStatusPaid {
		t.Fatalf("unexpected order status %q ok=%v", st, ok)
	}
	if _, ok := ParsePaymentStatus("settled"); ok {
		t.Fatalf("expected unknown payment status to be rejected")
	}
	if m, ok := ParsePaymentMethod("PayPal"); !ok || m != PaymentMethodPayPal {
		t.Fatalf("unexpected payment method %q ok=%v", m, ok)
	}
}

func TestCallerCanAccessOrder(t *testing.T) {
	owner := "user-1"
	owned := Order{UserID: &owner}
	guest := Order{}

	if !(Caller{UserID: "user-1", Role: RoleAuthenticated}).CanAccessOrder(owned) {
		t.Fatalf("owner should access own order")
	}
	if (Caller{UserID: "user-2", Role: RoleAuthenticated}).CanAccessOrder(owned) {
		t.Fatalf("other user must not access order")
	}
	if AnonymousCaller().CanAccessOrder(owned) {
		t.Fatalf("anonymous caller must not access owned order")
	}
	if !AnonymousCaller().CanAccessOrder(guest) {
		t.Fatalf("guest order should be accessible")
	}
	if !(Caller{Role: RoleService}).CanAccessOrder(owned) {
		t.Fatalf("service role should access any order")
	}
}
