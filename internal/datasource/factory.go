package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// ESPNSourceType is the ESPN site API
	ESPNSourceType SourceType = "espn"
)

// Factory creates ScheduleSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// HTTPClientConfigFrom maps provider configuration onto HTTP client settings
func HTTPClientConfigFrom(cfg config.ProviderConfig) HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.HTTPTimeout > 0 {
		httpCfg.Timeout = cfg.HTTPTimeout
	}
	httpCfg.MaxRetries = cfg.MaxRetries
	if cfg.RetryWaitMin > 0 {
		httpCfg.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		httpCfg.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	if cfg.CircuitBreakerMax > 0 {
		httpCfg.CircuitBreakerMax = cfg.CircuitBreakerMax
	}
	if cfg.CircuitBreakerReset > 0 {
		httpCfg.CircuitBreakerReset = cfg.CircuitBreakerReset
	}
	return httpCfg
}

// NewScheduleSource creates the configured ScheduleSource with its own rate-limited client
func (f *Factory) NewScheduleSource(cfg config.ProviderConfig) (ScheduleSource, error) {
	httpClient := NewRateLimitedHTTPClient(HTTPClientConfigFrom(cfg), f.logger)

	switch SourceType(cfg.Name) {
	case ESPNSourceType, "":
		if f.logger != nil {
			f.logger.WithField("base_url", cfg.BaseURL).Info("Created data source: espn")
		}
		return NewESPNClient(httpClient, cfg.BaseURL, cfg.APIKey, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}

// ListAvailableSources returns the supported source types
func (f *Factory) ListAvailableSources() []SourceType {
	return []SourceType{ESPNSourceType}
}
