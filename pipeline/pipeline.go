package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/uyouii/quantile-calibration/calibration"
	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/config"
	"github.com/uyouii/quantile-calibration/model"
	"github.com/uyouii/quantile-calibration/quantile"
	"github.com/uyouii/quantile-calibration/utils"
	"go.uber.org/zap"
)

const reportPrecision = 6

// Run estimates predictive quantiles on main, fits a calibration map on them,
// and evaluates the map on holdout, or on main when holdout is nil.
// A calibration that cannot be fitted is reported, not returned as an error.
func Run(ctx context.Context, cfg *config.Config, main, holdout *model.Dataset) (report *model.Report, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline Run recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			report, err = nil, fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	if err := main.Validate(); err != nil {
		return nil, fmt.Errorf("main dataset: %w", err)
	}
	eval := main
	if holdout != nil {
		if err := holdout.Validate(); err != nil {
			return nil, fmt.Errorf("holdout dataset: %w", err)
		}
		eval = holdout
	}
	logger.Info("Begin calibration run", zap.String("main", main.DebugString()),
		zap.String("eval", eval.DebugString()), zap.String("method", cfg.Estimator.Method))

	est, err := quantile.NewEstimator(cfg.Estimator.Method, cfg.Estimator.BandwidthAdjust)
	if err != nil {
		return nil, err
	}

	// 1. predictive quantiles of the main dataset
	rawMain, err := quantile.PredictiveQuantiles(ctx, est, main.Ys(), main.Predictive, cfg.Estimator.Workers)
	if err != nil {
		logger.Error("PredictiveQuantiles failed", zap.Error(err))
		return nil, err
	}

	// 2. fit the calibration map
	levels := quantile.ExpectedLevels(cfg.Calibration.LevelCount)
	fitLevels := levels
	if cfg.Calibration.ObservationLevels {
		fitLevels = nil
	}
	cal, err := calibration.Fit(ctx, rawMain, fitLevels)
	if err != nil && !errors.Is(err, common.ErrorCalibrationUnavailable) {
		logger.Error("calibration Fit failed", zap.Error(err))
		return nil, err
	}

	// 3. evaluate on the evaluation dataset
	rawEval := rawMain
	if eval != main {
		rawEval, err = quantile.PredictiveQuantiles(ctx, est, eval.Ys(), eval.Predictive, cfg.Estimator.Workers)
		if err != nil {
			logger.Error("PredictiveQuantiles failed on holdout", zap.Error(err))
			return nil, err
		}
	}

	curve, err := calibration.Curve(rawEval, cal, levels)
	if err != nil {
		return nil, err
	}

	nominal := cfg.Calibration.NominalLevels
	uncalibrated, err := quantile.SampleQuantiles(ctx, est, eval.Predictive, nominal)
	if err != nil {
		return nil, err
	}
	calibrated, rawLevels, err := calibration.CalibratedIntervals(ctx, est, eval.Predictive, cal, nominal)
	if err != nil && !errors.Is(err, common.ErrorCalibrationUnavailable) {
		return nil, err
	}

	report = &model.Report{
		Method:               cfg.Estimator.Method,
		Observations:         len(main.Observations),
		EvalObservations:     len(eval.Observations),
		Quantiles:            utils.FormatFloats(rawEval, reportPrecision),
		CalibrationAvailable: cal.Available(),
		CalibrationMap:       cal.Points(),
		Curve:                curve,
		NominalLevels:        nominal,
		RawLevels:            utils.FormatFloats(rawLevels, reportPrecision),
		Means:                utils.FormatFloats(quantile.Means(eval.Predictive), reportPrecision),
		Uncalibrated:         uncalibrated,
		Calibrated:           calibrated,
	}

	ys := eval.Ys()
	if report.Before, err = diagnose(curve, rawEval, ys, uncalibrated, false); err != nil {
		return nil, err
	}
	calibratedEval, err := cal.ForwardAll(rawEval)
	if err != nil && !errors.Is(err, common.ErrorCalibrationUnavailable) {
		return nil, err
	}
	if report.After, err = diagnose(curve, calibratedEval, ys, calibrated, true); err != nil {
		return nil, err
	}

	logger.Info("calibration run finished",
		zap.Bool("available", report.CalibrationAvailable),
		zap.Float64("coverageBefore", report.Before.Coverage),
		zap.Float64("coverageAfter", report.After.Coverage),
		zap.Float64("ceBefore", report.Before.CalibrationError),
		zap.Float64("ceAfter", report.After.CalibrationError))
	return report, nil
}

func diagnose(curve []model.CurvePoint, quantiles, ys []float64,
	bands *model.IntervalBands, calibrated bool) (model.Diagnostics, error) {
	expected := make([]float64, len(curve))
	observed := make([]float64, len(curve))
	for i, point := range curve {
		expected[i] = point.Expected
		observed[i] = point.Uncalibrated
		if calibrated {
			observed[i] = point.Calibrated
		}
	}

	ce, err := quantile.CalibrationError(expected, observed)
	if err != nil {
		return model.Diagnostics{}, err
	}
	ks, err := quantile.UniformityKS(quantiles)
	if err != nil {
		return model.Diagnostics{}, err
	}
	coverage, err := quantile.Coverage(ys, bands.Lower(), bands.Upper())
	if err != nil {
		return model.Diagnostics{}, err
	}

	return model.Diagnostics{
		Uniformity:       utils.FormatFloat(ks, reportPrecision),
		CalibrationError: utils.FormatFloat(ce, reportPrecision),
		Coverage:         utils.FormatFloat(coverage, reportPrecision),
	}, nil
}
