// Command calibrate fits a quantile calibration map to posterior predictive
// samples and reports calibrated predictive intervals.
//
// Usage:
//
//	calibrate simulate --output data.json
//	calibrate run --input data.json --output report.json
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/quantile-calibration/config"
	"github.com/uyouii/quantile-calibration/utils"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "calibrate",
		Short:        "Calibrate posterior predictive quantiles with isotonic regression",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(newRunCmd(), newSimulateCmd())
	return root
}

// loadConfig reads the config and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Development); err != nil {
		return nil, err
	}
	return cfg, nil
}
