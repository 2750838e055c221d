package stripewebhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"quickfeedback/config"
	"quickfeedback/internal/infra/metrics"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = 65536

// errSkip marks events that cannot be applied (unknown user or plan). They are
// acknowledged so Stripe does not retry them forever.
var errSkip = errors.New("skipped")

var errBadPayload = errors.New("malformed event object")

func skip(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errSkip, fmt.Sprintf(format, args...))
}

// POST /webhook/stripe
func StripeWebhook(c *gin.Context) {
	log := logger.WithComponent("stripe-webhook")

	endpointSecret := config.Cfg.Stripe.WebhookSecret
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Warn("signature verification failed", "err", err)
		metrics.StripeWebhookEventsTotal.WithLabelValues("unknown", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	eventType := string(event.Type)
	handle, known := handlers[eventType]
	if !known {
		metrics.StripeWebhookEventsTotal.WithLabelValues(eventType, "ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	err = handle(c, event.Data.Raw)
	switch {
	case err == nil:
		metrics.StripeWebhookEventsTotal.WithLabelValues(eventType, "applied").Inc()
		log.Info("event applied", "type", eventType, "id", event.ID)
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, errBadPayload):
		metrics.StripeWebhookEventsTotal.WithLabelValues(eventType, "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse event object"})
	case errors.Is(err, errSkip):
		metrics.StripeWebhookEventsTotal.WithLabelValues(eventType, "skipped").Inc()
		log.Warn("event skipped", "type", eventType, "id", event.ID, "reason", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
	default:
		metrics.StripeWebhookEventsTotal.WithLabelValues(eventType, "error").Inc()
		log.Error("event failed", "type", eventType, "id", event.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
	}
}

type eventHandler func(c *gin.Context, raw json.RawMessage) error

var handlers = map[string]eventHandler{
	"checkout.session.completed": func(c *gin.Context, raw json.RawMessage) error {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return handleCheckoutSessionCompleted(c.Request.Context(), &session)
	},
	"customer.subscription.updated": func(c *gin.Context, raw json.RawMessage) error {
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return handleSubscriptionUpdated(c.Request.Context(), &sub)
	},
	"customer.subscription.deleted": func(c *gin.Context, raw json.RawMessage) error {
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return handleSubscriptionDeleted(c.Request.Context(), &sub)
	},
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
