package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	upstreamErrors   *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	offerTransitions *prometheus.CounterVec
	signIns          *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bff_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		upstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_upstream_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		offerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_offer_transitions_total",
				Help: "Offer lifecycle transitions observed from the backend.",
			},
			[]string{"to"},
		),
		signIns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_sign_ins_total",
				Help: "Sign-ins by reconciliation outcome.",
			},
			[]string{"phase"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrUpstreamError increments the external error counter.
func (m *Metrics) IncrUpstreamError(service string) {
	m.upstreamErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrOfferTransition counts an observed offer status change.
func (m *Metrics) IncrOfferTransition(to string) {
	m.offerTransitions.WithLabelValues(to).Inc()
}

// IncrSignIn counts a sign-in by resulting session phase. Degraded
// (optimistic) sign-ins are the fail-open path worth watching.
func (m *Metrics) IncrSignIn(phase string) {
	m.signIns.WithLabelValues(phase).Inc()
}

// SignInCount reads back the cumulative sign-in counter for a phase.
func (m *Metrics) SignInCount(phase string) float64 {
	return getCounterValue(m.signIns, phase)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
