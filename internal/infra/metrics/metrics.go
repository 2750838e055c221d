package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FeedbackSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickfeedback_feedback_submissions_total",
			Help: "Public feedback submissions by outcome",
		},
		[]string{"result"}, // accepted, limited, rejected, error
	)

	EntitlementDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickfeedback_entitlement_denials_total",
			Help: "Plan limit denials by plan and exceeded limit",
		},
		[]string{"plan", "limit"},
	)

	StripeWebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickfeedback_stripe_webhook_events_total",
			Help: "Stripe webhook events by type and handling result",
		},
		[]string{"type", "result"},
	)
)
