package main

import (
	"github.com/spf13/cobra"
	"github.com/uyouii/quantile-calibration/model"
	"github.com/uyouii/quantile-calibration/simulate"
	"github.com/uyouii/quantile-calibration/utils"
	"go.uber.org/zap"
)

func newSimulateCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic dataset with a deliberately overconfident predictive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := utils.GetLogger(cmd.Context())

			mainSet, holdout, err := simulate.Generate(simulate.Cubic, cfg.Simulation)
			if err != nil {
				return err
			}
			logger.Info("simulated datasets", zap.String("main", mainSet.DebugString()),
				zap.Int("holdout", cfg.Simulation.Holdout), zap.Uint64("seed", cfg.Simulation.Seed))

			file := &model.DatasetFile{
				Main:    model.NewDatasetRecord(mainSet),
				Holdout: model.NewDatasetRecord(holdout),
			}
			return writeJSON(cmd.OutOrStdout(), outputPath, file)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "dataset file, stdout when empty")
	return cmd
}
