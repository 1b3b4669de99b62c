package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/edge-calibrator/internal/config"
)

// ConfigFrom maps application configuration onto pricing parameters
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Tiers:         cfg.Edge,
		Policy:        cfg.Staking,
		Bankroll:      decimal.NewFromFloat(cfg.Pricing.Bankroll),
		DefaultStdDev: cfg.Pricing.DefaultStdDev,
	}
}
