package provider

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/config"
)

// OptionsFromConfig maps application configuration onto provider options
func OptionsFromConfig(cfg *config.Config, logger *logrus.Logger) []Option {
	return []Option{
		WithTTL(cfg.Cache.TTL),
		WithCleanupInterval(cfg.Cache.CleanupInterval),
		WithLastN(cfg.Provider.LastN),
		WithFetchTimeout(cfg.Provider.FetchTimeout),
		WithMaxConcurrentFetches(cfg.Provider.MaxConcurrentFetches),
		WithLogger(logger),
	}
}
