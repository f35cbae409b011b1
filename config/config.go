package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/uyouii/quantile-calibration/common"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of one calibration run.
type Config struct {
	Estimator   EstimatorConfig   `yaml:"estimator"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type EstimatorConfig struct {
	Method          string  `yaml:"method" env:"CALIB_ESTIMATOR"` // empirical, kernel
	BandwidthAdjust float64 `yaml:"bandwidth_adjust" env:"CALIB_BANDWIDTH_ADJUST"`
	Workers         int     `yaml:"workers" env:"CALIB_WORKERS"`
}

type CalibrationConfig struct {
	LevelCount int `yaml:"level_count" env:"CALIB_LEVEL_COUNT"`
	// ObservationLevels fits on every observed quantile instead of LevelCount levels
	ObservationLevels bool      `yaml:"observation_levels" env:"CALIB_OBSERVATION_LEVELS"`
	NominalLevels     []float64 `yaml:"nominal_levels" env:"CALIB_NOMINAL_LEVELS" envSeparator:","`
}

type SimulationConfig struct {
	Observations int     `yaml:"observations" env:"CALIB_SIM_OBSERVATIONS"`
	Holdout      int     `yaml:"holdout" env:"CALIB_SIM_HOLDOUT"`
	XMin         float64 `yaml:"x_min"`
	XMax         float64 `yaml:"x_max"`
	Draws        int     `yaml:"draws" env:"CALIB_SIM_DRAWS"`
	// Noise is the predictive standard deviation, 0 uses the true one
	Noise float64 `yaml:"noise" env:"CALIB_SIM_NOISE"`
	Seed  uint64  `yaml:"seed" env:"CALIB_SIM_SEED"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" env:"CALIB_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"CALIB_LOG_DEVELOPMENT"`
}

func DefaultConfig() *Config {
	return &Config{
		Estimator: EstimatorConfig{
			Method:          "empirical",
			BandwidthAdjust: 1.0,
			Workers:         1,
		},
		Calibration: CalibrationConfig{
			LevelCount:    11,
			NominalLevels: []float64{0.025, 0.5, 0.975},
		},
		Simulation: SimulationConfig{
			Observations: 50,
			Holdout:      50,
			XMin:         -4,
			XMax:         4,
			Draws:        2000,
			Noise:        0.5,
			Seed:         2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Estimator.Method {
	case "empirical", "kernel":
	default:
		return fmt.Errorf("estimator.method %q: %w", c.Estimator.Method, common.ErrorInvalidInput)
	}
	if c.Estimator.Workers < 1 {
		return fmt.Errorf("estimator.workers must be >= 1: %w", common.ErrorInvalidInput)
	}
	// the calibration curve is read at LevelCount levels even when the
	// map is fit on observation levels
	if c.Calibration.LevelCount < 2 {
		return fmt.Errorf("calibration.level_count must be >= 2: %w", common.ErrorInvalidInput)
	}
	if len(c.Calibration.NominalLevels) == 0 {
		return fmt.Errorf("calibration.nominal_levels is empty: %w", common.ErrorInvalidInput)
	}
	for _, p := range c.Calibration.NominalLevels {
		if !(p >= 0 && p <= 1) {
			return fmt.Errorf("calibration.nominal_levels value %v outside [0,1]: %w", p, common.ErrorInvalidInput)
		}
	}
	if c.Simulation.XMin >= c.Simulation.XMax {
		return fmt.Errorf("simulation.x_min must be below x_max: %w", common.ErrorInvalidInput)
	}
	if c.Simulation.Observations < 1 || c.Simulation.Draws < 1 || c.Simulation.Holdout < 0 {
		return fmt.Errorf("simulation sizes must be positive: %w", common.ErrorInvalidInput)
	}
	return nil
}
