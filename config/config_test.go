package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/quantile-calibration/common"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
estimator:
  method: kernel
  workers: 4
calibration:
  level_count: 21
  nominal_levels: [0.05, 0.95]
`), 0o644))

	t.Setenv("CALIB_WORKERS", "8")
	t.Setenv("CALIB_SIM_SEED", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kernel", cfg.Estimator.Method)
	assert.Equal(t, 8, cfg.Estimator.Workers)
	assert.Equal(t, 21, cfg.Calibration.LevelCount)
	assert.Equal(t, []float64{0.05, 0.95}, cfg.Calibration.NominalLevels)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	// untouched sections keep their defaults
	assert.Equal(t, 1.0, cfg.Estimator.BandwidthAdjust)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown method", func(c *Config) { c.Estimator.Method = "mcmc" }},
		{"no workers", func(c *Config) { c.Estimator.Workers = 0 }},
		{"one level", func(c *Config) { c.Calibration.LevelCount = 1 }},
		{"observation levels with zero level count", func(c *Config) {
			c.Calibration.ObservationLevels = true
			c.Calibration.LevelCount = 0
		}},
		{"nominal out of range", func(c *Config) { c.Calibration.NominalLevels = []float64{1.5} }},
		{"empty nominal", func(c *Config) { c.Calibration.NominalLevels = nil }},
		{"inverted x range", func(c *Config) { c.Simulation.XMin = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), common.ErrorInvalidInput)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
