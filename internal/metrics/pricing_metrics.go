package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pricing metrics
var (
	GamesPricedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_priced_total",
		Help:      "Games priced by calibration data source",
	}, []string{"league", "data_source"})

	EdgesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edges_total",
		Help:      "Evaluated edges by recommendation tier",
	}, []string{"recommendation"})

	StakeFraction = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stake_fraction",
		Help:      "Recommended bankroll fraction per bet",
		Buckets:   []float64{0, 0.005, 0.01, 0.015, 0.02, 0.03, 0.04, 0.05},
	})

	SlateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "slate_duration_seconds",
		Help:      "Time to warm and price a slate",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordGamePriced records a priced game.
func RecordGamePriced(league, dataSource string) {
	GamesPricedTotal.WithLabelValues(league, dataSource).Inc()
}

// RecordEdge records an edge classification.
func RecordEdge(recommendation string) {
	EdgesTotal.WithLabelValues(recommendation).Inc()
}

// RecordStake records a stake fraction.
func RecordStake(fraction float64) {
	StakeFraction.Observe(fraction)
}

// RecordSlateDuration records the time spent on a slate.
func RecordSlateDuration(d time.Duration) {
	SlateDuration.Observe(d.Seconds())
}
