// Package config provides configuration management for the edge calibrator.
package config

import (
	"time"

	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/odds"
	"github.com/yourusername/edge-calibrator/internal/staking"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig           `mapstructure:"app" validate:"required"`
	Provider  ProviderConfig      `mapstructure:"provider" validate:"required"`
	Cache     CacheConfig         `mapstructure:"cache" validate:"required"`
	Redis     RedisConfig         `mapstructure:"redis"`
	Pricing   PricingConfig       `mapstructure:"pricing" validate:"required"`
	Staking   staking.KellyPolicy `mapstructure:"staking" validate:"required"`
	Edge      odds.EdgeTiers      `mapstructure:"edge" validate:"required"`
	Metrics   MetricsConfig       `mapstructure:"metrics"`
	Health    HealthConfig        `mapstructure:"health" validate:"required"`
	Scheduler SchedulerConfig     `mapstructure:"scheduler"`
	Secrets   SecretsConfig       `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProviderConfig configures the upstream schedule provider and its HTTP client
type ProviderConfig struct {
	Name                 string        `mapstructure:"name" validate:"required,oneof=espn"`
	BaseURL              string        `mapstructure:"base_url" validate:"required,url"`
	APIKey               string        `mapstructure:"api_key"`
	HTTPTimeout          time.Duration `mapstructure:"http_timeout" validate:"required,gt=0"`
	FetchTimeout         time.Duration `mapstructure:"fetch_timeout" validate:"required,gt=0"`
	LastN                int           `mapstructure:"last_n" validate:"required,min=1,max=82"`
	MaxRetries           int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryWaitMin         time.Duration `mapstructure:"retry_wait_min" validate:"required,gt=0"`
	RetryWaitMax         time.Duration `mapstructure:"retry_wait_max" validate:"required,gt=0"`
	RateLimit            float64       `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax    int           `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CircuitBreakerReset  time.Duration `mapstructure:"circuit_breaker_reset" validate:"required,gt=0"`
	MaxConcurrentFetches int           `mapstructure:"max_concurrent_fetches" validate:"required,gt=0"`
}

// CacheConfig configures the in-process calibration cache
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl" validate:"required,gt=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" validate:"required,gt=0"`
}

// RedisConfig configures the optional shared stats mirror
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0,lte=15"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// PricingConfig configures slate pricing
type PricingConfig struct {
	League        string  `mapstructure:"league" validate:"required,league"`
	Bankroll      float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	DefaultStdDev float64 `mapstructure:"default_std_dev" validate:"required,gte=5,lte=20"`
	SlateFile     string  `mapstructure:"slate_file"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig configures the health and metrics HTTP server
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// SchedulerConfig configures the periodic cache warm
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	WarmSchedule string `mapstructure:"warm_schedule" validate:"required_if=Enabled true"`
}

// SecretsConfig configures the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// League returns the configured pricing league
func (c *Config) League() models.League {
	league, err := models.ParseLeague(c.Pricing.League)
	if err != nil {
		return models.LeagueNBA
	}
	return league
}
