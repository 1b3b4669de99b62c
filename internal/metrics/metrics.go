// Package metrics provides centralized Prometheus metrics registry for the edge calibrator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edge_calibrator"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Provider metrics
		registry.MustRegister(CacheRequestsTotal)
		registry.MustRegister(UpstreamFetchesTotal)
		registry.MustRegister(UpstreamFetchDuration)
		registry.MustRegister(WarmFailuresTotal)
		registry.MustRegister(WarmedTeams)
		registry.MustRegister(SharedStoreErrorsTotal)

		// Pricing metrics
		registry.MustRegister(GamesPricedTotal)
		registry.MustRegister(EdgesTotal)
		registry.MustRegister(StakeFraction)
		registry.MustRegister(SlateDuration)

		registry.MustRegister(collectors.NewGoCollector())
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
