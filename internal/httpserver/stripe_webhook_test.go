package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
)

const testWebhookSecret = "whsec_test_secret"

func signedWebhook(t *testing.T, payload, secret string) *http.Request {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func webhookRouter(t *testing.T, secret string) (http.Handler, *testDeps) {
	t.Helper()
	deps, td := newTestDeps()
	deps.StripeWebhookSecret = secret
	return newTestRouter(t, deps), td
}

func TestStripeWebhook_IntentSucceeded(t *testing.T) {
	router, td := webhookRouter(t, testWebhookSecret)
	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","object":"payment_intent"}}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhook(t, payload, testWebhookSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(td.payments.byProvider) != 1 {
		t.Fatalf("expected one provider update, got %d", len(td.payments.byProvider))
	}
	got := td.payments.byProvider[0]
	if got.providerID != "pi_123" || got.status != domain.PaymentStatusCompleted || got.method != domain.PaymentMethodCard {
		t.Fatalf("unexpected update %+v", got)
	}
	if got.caller.Role != domain.RoleService || got.details["stripe_event_id"] != "evt_1" {
		t.Fatalf("unexpected caller/details %+v", got)
	}
}

func TestStripeWebhook_ChargeRefunded(t *testing.T) {
	router, td := webhookRouter(t, testWebhookSecret)
	payload := `{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_9","object":"charge","payment_intent":"pi_456"}}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhook(t, payload, testWebhookSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if len(td.payments.byProvider) != 1 || td.payments.byProvider[0].providerID != "pi_456" || td.payments.byProvider[0].status != domain.PaymentStatusRefunded {
		t.Fatalf("unexpected updates %+v", td.payments.byProvider)
	}
}

func TestStripeWebhook_BadSignature(t *testing.T) {
	router, td := webhookRouter(t, testWebhookSecret)
	payload := `{"id":"evt_3","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhook(t, payload, "whsec_other"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(td.payments.byProvider) != 0 {
		t.Fatalf("unsigned event must not reach the payment service")
	}
}

func TestStripeWebhook_IgnoresUnknownType(t *testing.T) {
	router, td := webhookRouter(t, testWebhookSecret)
	payload := `{"id":"evt_4","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhook(t, payload, testWebhookSecret))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ignored":true`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	if len(td.payments.byProvider) != 0 {
		t.Fatalf("unknown event type must be ignored")
	}
}

func TestStripeWebhook_AcknowledgesUnknownPayment(t *testing.T) {
	router, td := webhookRouter(t, testWebhookSecret)
	td.payments.err = domain.ErrPaymentNotFound
	payload := `{"id":"evt_5","object":"event","type":"payment_intent.payment_failed","data":{"object":{"id":"pi_missing"}}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhook(t, payload, testWebhookSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStripeWebhook_StorageFailureRetries(t *testing.T) {
	router, td := webhookRouter(t, testWebhookSecret)
	td.payments.err = &domain.StorageError{Op: "update payment", Err: fmt.Errorf("timeout")}
	payload := `{"id":"evt_6","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhook(t, payload, testWebhookSecret))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 so the provider retries, got %d", rec.Code)
	}
}

func TestStripeWebhook_DisabledWithoutSecret(t *testing.T) {
	router, _ := webhookRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedWebhook(t, `{}`, testWebhookSecret))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
