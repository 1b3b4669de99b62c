package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/edge-calibrator/internal/odds"
	"github.com/yourusername/edge-calibrator/internal/staking"
)

const (
	envPrefix         = "EDGE_CALIBRATOR"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	// A missing file is fine: defaults and environment variables apply
	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "edge-calibrator")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("provider.name", "espn")
	v.SetDefault("provider.base_url", "https://site.api.espn.com/apis/site/v2/sports")
	v.SetDefault("provider.http_timeout", "10s")
	v.SetDefault("provider.fetch_timeout", "5s")
	v.SetDefault("provider.last_n", 15)
	v.SetDefault("provider.max_retries", 2)
	v.SetDefault("provider.retry_wait_min", "100ms")
	v.SetDefault("provider.retry_wait_max", "2s")
	v.SetDefault("provider.rate_limit", 10.0)
	v.SetDefault("provider.circuit_breaker_max", 5)
	v.SetDefault("provider.circuit_breaker_reset", "30s")
	v.SetDefault("provider.max_concurrent_fetches", 8)

	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.cleanup_interval", "30m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.key_prefix", "calibration")

	v.SetDefault("pricing.league", "nba")
	v.SetDefault("pricing.bankroll", 1000.0)
	v.SetDefault("pricing.default_std_dev", 12.0)

	policy := staking.DefaultKellyPolicy()
	v.SetDefault("staking.fractional", policy.Fractional)
	v.SetDefault("staking.aggressive_threshold", policy.AggressiveThreshold)
	v.SetDefault("staking.aggressive_multiplier", policy.AggressiveMultiplier)
	v.SetDefault("staking.max_fraction", policy.MaxFraction)
	v.SetDefault("staking.min_abs_odds", policy.MinAbsOdds)
	v.SetDefault("staking.max_abs_odds", policy.MaxAbsOdds)

	tiers := odds.DefaultEdgeTiers()
	v.SetDefault("edge.strong", tiers.Strong)
	v.SetDefault("edge.value", tiers.Value)
	v.SetDefault("edge.marginal", tiers.Marginal)
	v.SetDefault("edge.has_value", tiers.HasValue)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", 8080)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.warm_schedule", "*/15 * * * *")
}
