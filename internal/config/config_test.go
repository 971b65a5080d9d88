package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 365, cfg.Analysis.MaxDays)
	assert.Equal(t, 10.0, cfg.Analysis.LargeChangeDeltaPct)
	assert.Equal(t, 2.0, cfg.Analysis.VolumeSpikeThreshold)
	assert.Equal(t, 20, cfg.Analysis.MAWindow)
	assert.Equal(t, 14, cfg.Analysis.RSIWindow)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "@hourly", cfg.Watch.Schedule)
}

func TestLoad(t *testing.T) {
	t.Run("defaults from tags", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 20, cfg.Upload.MaxFiles)
		assert.Equal(t, 4, cfg.Analysis.Workers)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("STOCKPULSE_SERVER_PORT", "9090")
		t.Setenv("STOCKPULSE_ANALYSIS_MAX_DAYS", "30")
		t.Setenv("STOCKPULSE_ANALYSIS_RSI_WINDOW", "7")
		t.Setenv("STOCKPULSE_LOGGING_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 30, cfg.Analysis.MaxDays)
		assert.Equal(t, 7, cfg.Analysis.RSIWindow)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("invalid port rejected", func(t *testing.T) {
		t.Setenv("STOCKPULSE_SERVER_PORT", "70000")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("invalid analysis window rejected", func(t *testing.T) {
		t.Setenv("STOCKPULSE_ANALYSIS_MA_WINDOW", "-1")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"no allowed origins", func(c *Config) { c.Security.AllowedOrigins = nil }},
		{"zero max files", func(c *Config) { c.Upload.MaxFiles = 0 }},
		{"zero max days", func(c *Config) { c.Analysis.MaxDays = 0 }},
		{"negative delta", func(c *Config) { c.Analysis.LargeChangeDeltaPct = -1 }},
		{"zero rsi window", func(c *Config) { c.Analysis.RSIWindow = 0 }},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}
