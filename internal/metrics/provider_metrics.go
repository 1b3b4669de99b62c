package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache and upstream metrics
var (
	CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Calibration cache lookups by result",
	}, []string{"league", "result"})

	UpstreamFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_fetches_total",
		Help:      "Upstream schedule fetches by outcome",
	}, []string{"league", "outcome"})

	UpstreamFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Latency of upstream schedule fetches",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"league"})

	WarmFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "warm_failures_total",
		Help:      "Teams that produced no stats during a cache warm",
	}, []string{"league", "reason"})

	WarmedTeams = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "warmed_teams",
		Help:      "Teams with derived stats after the most recent warm",
	}, []string{"league"})

	SharedStoreErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shared_store_errors_total",
		Help:      "Failed shared store operations",
	}, []string{"op"})
)

// Fetch outcomes
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// RecordCacheHit records a calibration cache hit.
func RecordCacheHit(league string) {
	CacheRequestsTotal.WithLabelValues(league, "hit").Inc()
}

// RecordCacheMiss records a calibration cache miss.
func RecordCacheMiss(league string) {
	CacheRequestsTotal.WithLabelValues(league, "miss").Inc()
}

// RecordUpstreamFetch records an upstream fetch and its latency.
func RecordUpstreamFetch(league, outcome string, d time.Duration) {
	UpstreamFetchesTotal.WithLabelValues(league, outcome).Inc()
	UpstreamFetchDuration.WithLabelValues(league).Observe(d.Seconds())
}

// RecordWarmFailure records a team that could not be warmed.
func RecordWarmFailure(league, reason string) {
	WarmFailuresTotal.WithLabelValues(league, reason).Inc()
}

// SetWarmedTeams records how many teams a warm produced stats for.
func SetWarmedTeams(league string, n int) {
	WarmedTeams.WithLabelValues(league).Set(float64(n))
}

// RecordSharedStoreError records a failed shared store call.
func RecordSharedStoreError(op string) {
	SharedStoreErrorsTotal.WithLabelValues(op).Inc()
}
