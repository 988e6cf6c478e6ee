package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("datasource", validateDataSource)
	_ = v.RegisterValidation("execmode", validateExecutionMode)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration is required")
	}
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateDataSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "csv", "postgres", "http":
		return true
	default:
		return false
	}
}

func validateExecutionMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "same_bar", "next_bar":
		return true
	default:
		return false
	}
}

// validateCrossField performs checks spanning several fields
func validateCrossField(cfg *Config) error {
	bt := cfg.Backtest
	if bt.MinWindow > bt.MaxWindow {
		return fmt.Errorf("backtest min_window (%d) cannot exceed max_window (%d)", bt.MinWindow, bt.MaxWindow)
	}
	if bt.DefaultWindow < bt.MinWindow || bt.DefaultWindow > bt.MaxWindow {
		return fmt.Errorf("backtest default_window (%d) must lie within [%d, %d]", bt.DefaultWindow, bt.MinWindow, bt.MaxWindow)
	}

	switch cfg.Data.Source {
	case "csv":
		if strings.TrimSpace(cfg.Data.Dir) == "" {
			return errors.New("data.dir is required for the csv source")
		}
	case "http":
		if cfg.Data.BaseURL == "" {
			return errors.New("data.base_url is required for the http source")
		}
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return errors.New("database host, name and user are required for the postgres source")
		}
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return errors.New("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Data.Cache.Enabled && cfg.Data.Cache.TTLSeconds == 0 {
		return errors.New("data.cache.ttl_seconds must be positive when caching is enabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		tag := fieldError.Tag()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, fieldError.Value())
		case "min", "max", "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "datasource":
			fmt.Fprintf(&b, "- Field '%s' must be one of: csv, postgres, http\n", field)
		case "execmode":
			fmt.Fprintf(&b, "- Field '%s' must be one of: same_bar, next_bar\n", field)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, fieldError.Value())
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
