// Package metrics exposes the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Booking outcomes recorded by BookingsTotal.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeTaken       = "taken"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

// Metrics groups the application collectors.
type Metrics struct {
	// HTTP requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// Booking attempts by outcome.
	BookingsTotal *prometheus.CounterVec

	// Time from opening the booking transaction to commit or rollback.
	BookingDuration prometheus.Histogram

	// Seats released by cancellations.
	SeatsReleasedTotal prometheus.Counter

	// Layout cache lookups by result (hit, miss, error).
	LayoutCacheTotal *prometheus.CounterVec
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Booking attempts by outcome",
			},
			[]string{"outcome"},
		),
		BookingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "booking_transaction_duration_seconds",
				Help:    "Duration of booking transactions",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),
		SeatsReleasedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_seats_released_total",
				Help: "Seats released by cancelled bookings",
			},
		),
		LayoutCacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "layout_cache_requests_total",
				Help: "Layout cache lookups by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.BookingDuration,
		m.SeatsReleasedTotal,
		m.LayoutCacheTotal,
	)
	return m
}

// Discard returns collectors registered nowhere, for tests and for
// components constructed without metrics.
func Discard() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}
