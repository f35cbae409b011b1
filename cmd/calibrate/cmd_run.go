package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/quantile-calibration/model"
	"github.com/uyouii/quantile-calibration/pipeline"
	"github.com/uyouii/quantile-calibration/utils"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	var inputPath, outputPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Estimate, fit and apply the calibration map to a dataset file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := utils.GetLogger(ctx)

			file, err := readDatasetFile(inputPath)
			if err != nil {
				return err
			}
			mainSet, err := file.Main.Dataset()
			if err != nil {
				return fmt.Errorf("main dataset: %w", err)
			}
			if mainSet == nil {
				return fmt.Errorf("%s has no main dataset", inputPath)
			}
			holdout, err := file.Holdout.Dataset()
			if err != nil {
				return fmt.Errorf("holdout dataset: %w", err)
			}

			report, err := pipeline.Run(ctx, cfg, mainSet, holdout)
			if err != nil {
				logger.Error("calibration run failed", zap.Error(err))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), outputPath, report)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "dataset JSON file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "report file, stdout when empty")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readDatasetFile(path string) (*model.DatasetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	file := &model.DatasetFile{}
	if err := json.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return file, nil
}

func writeJSON(stdout io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
