package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for reservation attempts.
const (
	OutcomeReserved     = "reserved"
	OutcomeInsufficient = "insufficient_capacity"
	OutcomeReplayed     = "replayed"
	OutcomeFailed       = "error"
)

type Booking struct {
	reservations *prometheus.CounterVec
	releases     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	retries      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

type HTTP struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var (
	bookingOnce     sync.Once
	bookingRegistry *Booking

	httpOnce     sync.Once
	httpRegistry *HTTP
)

func BookingMetrics() *Booking {
	bookingOnce.Do(func() {
		bookingRegistry = &Booking{
			reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "booking",
				Name:      "reservations_total",
				Help:      "Reservation attempts by outcome.",
			}, []string{"outcome"}),
			releases: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "booking",
				Name:      "releases_total",
				Help:      "Inventory releases by resulting booking status.",
			}, []string{"status"}),
			transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "booking",
				Name:      "transitions_total",
				Help:      "Booking status transitions.",
			}, []string{"from", "to"}),
			retries: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "booking",
				Name:      "retries_total",
				Help:      "Transactions retried after a lock timeout or transient storage error.",
			}, []string{"operation"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "hotel",
				Subsystem: "booking",
				Name:      "transaction_seconds",
				Help:      "Duration of reservation and release transactions including retries.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
		}
		prometheus.MustRegister(
			bookingRegistry.reservations,
			bookingRegistry.releases,
			bookingRegistry.transitions,
			bookingRegistry.retries,
			bookingRegistry.duration,
		)
	})
	return bookingRegistry
}

func (m *Booking) Reservation(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *Booking) Release(status string) {
	if m == nil {
		return
	}
	m.releases.WithLabelValues(status).Inc()
}

func (m *Booking) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Booking) Retry(operation string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(operation).Inc()
}

func (m *Booking) ObserveDuration(operation string, started time.Time) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func HTTPMetrics() *HTTP {
	httpOnce.Do(func() {
		httpRegistry = &HTTP{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "hotel",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route pattern and status code.",
			}, []string{"method", "route", "code"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "hotel",
				Subsystem: "http",
				Name:      "request_seconds",
				Help:      "HTTP request latency by route pattern.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "route"}),
		}
		prometheus.MustRegister(httpRegistry.requests, httpRegistry.latency)
	})
	return httpRegistry
}

func (m *HTTP) Observe(method, route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, statusText(code)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
