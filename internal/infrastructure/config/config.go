package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all engine configuration
type Config struct {
	Engine   EngineConfig
	Matching MatchingConfig
	VAT      VATConfig
	Log      LogConfig
}

// EngineConfig holds the numeric tolerances of the accounting core
type EngineConfig struct {
	// TotalTolerance is the accepted gap between a document's declared and
	// recomputed totals.
	TotalTolerance float64
	// BalanceTolerance is the accepted debit/credit gap on a generated
	// journal entry.
	BalanceTolerance float64
}

// MatchingConfig holds reconciliation matcher tolerances
type MatchingConfig struct {
	AmountTolerance   float64
	DateToleranceDays int
}

// VATConfig holds liquidation settings
type VATConfig struct {
	// LargeAmountThreshold flags liquidations whose magnitude exceeds it.
	LargeAmountThreshold float64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with TAXPILOT_ prefix (e.g., TAXPILOT_MATCHING_AMOUNT_TOLERANCE)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("TAXPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Engine: EngineConfig{
			TotalTolerance:   v.GetFloat64("engine.total_tolerance"),
			BalanceTolerance: v.GetFloat64("engine.balance_tolerance"),
		},
		Matching: MatchingConfig{
			AmountTolerance:   v.GetFloat64("matching.amount_tolerance"),
			DateToleranceDays: v.GetInt("matching.date_tolerance_days"),
		},
		VAT: VATConfig{
			LargeAmountThreshold: v.GetFloat64("vat.large_amount_threshold"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers the built-in defaults
func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.total_tolerance", 0.02)
	v.SetDefault("engine.balance_tolerance", 0.01)
	v.SetDefault("matching.amount_tolerance", 0.05)
	v.SetDefault("matching.date_tolerance_days", 30)
	v.SetDefault("vat.large_amount_threshold", 50000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
}

// Validate checks the configuration for values the engine cannot run with
func (c *Config) Validate() error {
	if c.Engine.TotalTolerance <= 0 {
		return fmt.Errorf("engine.total_tolerance must be positive, got %v", c.Engine.TotalTolerance)
	}
	if c.Engine.BalanceTolerance <= 0 {
		return fmt.Errorf("engine.balance_tolerance must be positive, got %v", c.Engine.BalanceTolerance)
	}
	if c.Matching.AmountTolerance <= 0 {
		return fmt.Errorf("matching.amount_tolerance must be positive, got %v", c.Matching.AmountTolerance)
	}
	if c.Matching.DateToleranceDays <= 0 {
		return fmt.Errorf("matching.date_tolerance_days must be positive, got %v", c.Matching.DateToleranceDays)
	}
	if c.VAT.LargeAmountThreshold <= 0 {
		return fmt.Errorf("vat.large_amount_threshold must be positive, got %v", c.VAT.LargeAmountThreshold)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}
