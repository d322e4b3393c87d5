package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "resort_booking"

var (
	once sync.Once

	reservationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_attempts_total",
			Help:      "Reservation transactions started, by resource.",
		},
		[]string{"resource"},
	)

	reservationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_outcomes_total",
			Help:      "Finished reservation requests, by resource and outcome.",
		},
		[]string{"resource", "outcome"},
	)

	serializationRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serialization_retries_total",
			Help:      "Transactions retried after a serialization failure or deadlock.",
		},
		[]string{"resource"},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Applied booking status transitions.",
		},
		[]string{"resource", "action"},
	)

	transactionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reservation_duration_seconds",
			Help:      "Wall time of a reservation operation including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Register registers metrics with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationAttempts,
			reservationOutcomes,
			serializationRetries,
			statusTransitions,
			transactionDuration,
		)
	})
}

func IncAttempt(resource string) {
	reservationAttempts.WithLabelValues(resource).Inc()
}

// IncOutcome records how a request ended: created, conflict, retries_exhausted,
// invalid or error.
func IncOutcome(resource, outcome string) {
	reservationOutcomes.WithLabelValues(resource, outcome).Inc()
}

func IncRetry(resource string) {
	serializationRetries.WithLabelValues(resource).Inc()
}

func IncTransition(resource, action string) {
	statusTransitions.WithLabelValues(resource, action).Inc()
}

func ObserveDuration(operation string, seconds float64) {
	transactionDuration.WithLabelValues(operation).Observe(seconds)
}
