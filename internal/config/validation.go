package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var marketKeyPattern = regexp.MustCompile(`^player_[a-z_]+$`)

var knownBookmakers = map[string]bool{
	"fanduel":        true,
	"draftkings":     true,
	"betmgm":         true,
	"caesars":        true,
	"pointsbetus":    true,
	"betrivers":      true,
	"williamhill_us": true,
}

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("markets", validateMarkets)
	v.RegisterValidation("bookmaker", validateBookmaker)
	v.RegisterValidation("cronexpr", validateCronExpr)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
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

func validateMarkets(fl validator.FieldLevel) bool {
	markets, ok := fl.Field().Interface().([]string)
	if !ok || len(markets) == 0 {
		return false
	}
	for _, market := range markets {
		if !marketKeyPattern.MatchString(market) {
			return false
		}
	}
	return true
}

func validateBookmaker(fl validator.FieldLevel) bool {
	return knownBookmakers[strings.ToLower(fl.Field().String())]
}

func validateCronExpr(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if _, err := time.Parse("2006-01-02", cfg.Engine.SeasonStart); err != nil {
		return fmt.Errorf("invalid engine season_start format: %w", err)
	}

	if cfg.Engine.MinSampleSize > cfg.Engine.WindowGames {
		return fmt.Errorf("min_sample_size cannot exceed window_games")
	}

	if cfg.Engine.Selector.NormalMaxCV > cfg.Engine.Selector.HighCV {
		return fmt.Errorf("selector normal_max_cv cannot exceed high_cv")
	}

	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" && !cfg.UsesMemoryStorage() {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Jobs.APIKey == "" {
			return fmt.Errorf("production environment requires jobs.api_key")
		}
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.Server.Port == cfg.Server.HealthPort {
		return fmt.Errorf("server port and health_port must differ")
	}

	if cfg.Metrics.Enabled && (cfg.Metrics.Port == cfg.Server.Port || cfg.Metrics.Port == cfg.Server.HealthPort) {
		return fmt.Errorf("metrics port must differ from server port and health_port")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "markets":
			fmt.Fprintf(&b, "- Field '%s' must list player prop market keys\n", field)
		case "bookmaker":
			fmt.Fprintf(&b, "- Field '%s' has unknown bookmaker '%v'\n", field, value)
		case "cronexpr":
			fmt.Fprintf(&b, "- Field '%s' must be a standard cron expression, got '%v'\n", field, value)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
