package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservation_app",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservation_app",
			Name:      "validation_failures_total",
			Help:      "Rejected mutations by operation.",
		},
		[]string{"operation"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservation_app",
			Name:      "reservation_transitions_total",
			Help:      "Committed reservation status changes.",
		},
		[]string{"from", "to"},
	)

	seatConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reservation_app",
			Name:      "seat_conflicts_total",
			Help:      "Seat attempts that lost a race on the table or reservation row.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, validationFailures, transitions, seatConflicts)
	})
}

func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}

func IncValidationFailure(operation string) {
	validationFailures.WithLabelValues(operation).Inc()
}

func IncTransition(from, to string) {
	transitions.WithLabelValues(from, to).Inc()
}

func IncSeatConflict() {
	seatConflicts.Inc()
}
