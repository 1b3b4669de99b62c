package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("league", validateLeague)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateLeague validates the league field
func validateLeague(fl validator.FieldLevel) bool {
	_, err := models.ParseLeague(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Provider.RetryWaitMin > cfg.Provider.RetryWaitMax {
		return fmt.Errorf("provider retry_wait_min cannot exceed retry_wait_max")
	}

	if cfg.Staking.AggressiveMultiplier > cfg.Staking.Fractional {
		return fmt.Errorf("staking aggressive_multiplier cannot exceed fractional")
	}

	edge := cfg.Edge
	if !(edge.Strong >= edge.Value && edge.Value >= edge.Marginal) {
		return fmt.Errorf("edge tiers must satisfy strong >= value >= marginal, got %.2f/%.2f/%.2f",
			edge.Strong, edge.Value, edge.Marginal)
	}
	if edge.Marginal < 0 || edge.HasValue < 0 {
		return fmt.Errorf("edge thresholds must be non-negative")
	}

	if cfg.Scheduler.Enabled {
		if _, err := cron.ParseStandard(cfg.Scheduler.WarmSchedule); err != nil {
			return fmt.Errorf("invalid scheduler warm_schedule %q: %w", cfg.Scheduler.WarmSchedule, err)
		}
		if cfg.Pricing.SlateFile == "" {
			return fmt.Errorf("scheduler requires pricing slate_file")
		}
	}

	if cfg.IsProduction() {
		if cfg.App.LogLevel == "debug" {
			return fmt.Errorf("production environment should not log at debug level")
		}
		if cfg.Redis.Enabled && cfg.Redis.Password == "" {
			return fmt.Errorf("production environment requires a redis password")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte", "gtfield":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "league":
			fmt.Fprintf(&b, "- Field '%s' must be one of: nba, ncaab\n", field)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}

var testCredentialPattern = regexp.MustCompile(`(?i)test|demo|example|placeholder|YOUR_`)

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.Provider.APIKey != "" && testCredentialPattern.MatchString(cfg.Provider.APIKey) {
			return fmt.Errorf("production environment should not use a test provider api key")
		}
		if cfg.Secrets.Enabled && cfg.Secrets.Region == "" {
			return fmt.Errorf("production secrets overlay requires a region")
		}
	}
	return nil
}
