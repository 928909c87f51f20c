package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEventsReceived counts inbound webhook deliveries by result:
	// accepted, duplicate, invalid_signature, error.
	WebhookEventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_received_total",
		Help: "Inbound webhook deliveries by result.",
	}, []string{"result"})

	// SettlementProcessed counts settlement task outcomes: ok, retried, dead_letter.
	SettlementProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_events_processed_total",
		Help: "Settlement task outcomes.",
	}, []string{"outcome"})

	// BookingsExpired counts bookings reclaimed by the expiry sweep.
	BookingsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_expired_total",
		Help: "Bookings expired by the payment-window sweep.",
	})

	// ReconciliationCases counts captures that raced an already-expired
	// booking and need operator attention.
	ReconciliationCases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_reconciliation_cases_total",
		Help: "Payment captures arriving for bookings no longer awaiting payment.",
	})
)
