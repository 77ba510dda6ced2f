package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.02, cfg.Engine.TotalTolerance)
	assert.Equal(t, 0.01, cfg.Engine.BalanceTolerance)
	assert.Equal(t, 0.05, cfg.Matching.AmountTolerance)
	assert.Equal(t, 30, cfg.Matching.DateToleranceDays)
	assert.Equal(t, float64(50000), cfg.VAT.LargeAmountThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TAXPILOT_MATCHING_DATE_TOLERANCE_DAYS", "15")
	t.Setenv("TAXPILOT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Matching.DateToleranceDays)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Engine:   EngineConfig{TotalTolerance: 0.02, BalanceTolerance: 0.01},
			Matching: MatchingConfig{AmountTolerance: 0.05, DateToleranceDays: 30},
			VAT:      VATConfig{LargeAmountThreshold: 50000},
			Log:      LogConfig{Level: "info", Format: "console", Output: "stdout"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("non-positive tolerances are rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Engine.TotalTolerance = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Matching.AmountTolerance = -0.05
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Matching.DateToleranceDays = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.VAT.LargeAmountThreshold = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown log level is rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("warning is accepted as an alias of warn", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "warning"
		assert.NoError(t, cfg.Validate())
	})
}
