package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const maxWebhookBody = 65536

var stripeStatuses = map[string]domain.PaymentStatus{
	"payment_intent.succeeded":      domain.PaymentStatusCompleted,
	"payment_intent.payment_failed": domain.PaymentStatusFailed,
	"charge.refunded":               domain.PaymentStatusRefunded,
}

// stripeWebhookHandler verifies the Stripe signature and applies the event to
// the card payment recorded under the intent id. Unknown payments and event
// types are acknowledged so Stripe stops retrying.
func stripeWebhookHandler(svc PaymentService, secret string, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, errorResponse{Error: errorBody{Code: "webhook_disabled", Message: "stripe webhook not configured"}})
			return
		}
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			writeError(c, logger, domain.InvalidInput("unreadable body"))
			return
		}
		evt, err := webhook.ConstructEventWithOptions(payload, c.GetHeader("Stripe-Signature"), secret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			logger.Printf("stripe webhook: rejected signature: %v", err)
			c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{Code: "invalid_signature", Message: "invalid signature"}})
			return
		}

		status, ok := stripeStatuses[string(evt.Type)]
		if !ok {
			c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
			return
		}
		intentID, err := paymentIntentID(evt)
		if err != nil || intentID == "" {
			logger.Printf("stripe webhook: event=%s type=%s without payment intent", evt.ID, evt.Type)
			c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
			return
		}

		details := map[string]interface{}{
			"stripe_event_id":   evt.ID,
			"stripe_event_type": string(evt.Type),
		}
		webhookCaller := domain.Caller{Role: domain.RoleService}
		_, err = svc.UpdateStatusByProvider(c.Request.Context(), webhookCaller, domain.PaymentMethodCard, intentID, status, details)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrPaymentNotFound):
			logger.Printf("stripe webhook: event=%s unknown payment intent=%s", evt.ID, intentID)
		case errors.Is(err, domain.ErrInvalidTransition):
			logger.Printf("stripe webhook: event=%s intent=%s ignored: %v", evt.ID, intentID, err)
		default:
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func paymentIntentID(evt stripe.Event) (string, error) {
	if evt.Data == nil {
		return "", nil
	}
	if string(evt.Type) == "charge.refunded" {
		var ch stripe.Charge
		if err := json.Unmarshal(evt.Data.Raw, &ch); err != nil {
			return "", err
		}
		if ch.PaymentIntent == nil {
			return "", nil
		}
		return ch.PaymentIntent.ID, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return "", err
	}
	return pi.ID, nil
}
