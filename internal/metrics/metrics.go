// Package metrics exposes the Prometheus counters served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEvents counts verified billing events by type and outcome
	// (applied, replay, ignored, error).
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_webhook_events_total",
			Help: "The total number of verified billing webhook events",
		},
		[]string{"event_type", "outcome"},
	)

	// WebhookRejected counts deliveries rejected before verification.
	WebhookRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_webhook_rejected_total",
			Help: "The total number of webhook deliveries with an invalid signature",
		},
	)

	// Logins counts login attempts by outcome (success, failure).
	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "The total number of login attempts",
		},
		[]string{"outcome"},
	)
)
