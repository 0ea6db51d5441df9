package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records sign-in attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_auth_attempts_total",
			Help: "Total number of sign-in attempts",
		},
		[]string{"result"},
	)

	// Registrations counts signup outcomes per role (hod|student|professor).
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_registrations_total",
			Help: "Total number of signup attempts",
		},
		[]string{"role", "result"},
	)

	// RequestTransitions counts attendance-request status transitions
	// (submitted|approved|rejected|granted).
	RequestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_request_transitions_total",
			Help: "Total number of attendance-request status transitions",
		},
		[]string{"transition"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attendance_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
