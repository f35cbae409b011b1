package calibration

import (
	"context"
	"errors"
	"fmt"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/model"
	"github.com/uyouii/quantile-calibration/quantile"
)

// CalibratedLevels translates nominal probability levels into the raw
// quantile levels to read off the uncalibrated predictive samples.
func CalibratedLevels(cal *Calibrator, nominal []float64) ([]float64, error) {
	if len(nominal) == 0 {
		return nil, fmt.Errorf("no nominal levels: %w", common.ErrorInvalidInput)
	}
	return cal.InverseAll(nominal)
}

// CalibratedIntervals carves calibrated bands out of the uncalibrated draws.
// The returned bands are labelled with the nominal levels. When calibration is
// unavailable the uncalibrated bands are returned with the unavailable error.
func CalibratedIntervals(ctx context.Context, est quantile.Estimator, pp *model.PosteriorPredictive,
	cal *Calibrator, nominal []float64) (*model.IntervalBands, []float64, error) {
	rawLevels, calErr := CalibratedLevels(cal, nominal)
	if calErr != nil && !errors.Is(calErr, common.ErrorCalibrationUnavailable) {
		return nil, nil, calErr
	}

	bands, err := quantile.SampleQuantiles(ctx, est, pp, rawLevels)
	if err != nil {
		return nil, nil, err
	}
	bands.Levels = append([]float64(nil), nominal...)
	return bands, rawLevels, calErr
}

// Curve compares expected levels with the observed frequency of raw and
// calibrated quantiles at or below them.
func Curve(raw []float64, cal *Calibrator, levels []float64) ([]model.CurvePoint, error) {
	uncalibrated, err := quantile.ObservedFrequencies(raw, levels)
	if err != nil {
		return nil, err
	}

	calibratedQuantiles, err := cal.ForwardAll(raw)
	if err != nil && !errors.Is(err, common.ErrorCalibrationUnavailable) {
		return nil, err
	}
	calibrated, err := quantile.ObservedFrequencies(calibratedQuantiles, levels)
	if err != nil {
		return nil, err
	}

	res := make([]model.CurvePoint, len(levels))
	for i, p := range levels {
		res[i] = model.CurvePoint{
			Expected:     p,
			Uncalibrated: uncalibrated[i],
			Calibrated:   calibrated[i],
		}
	}
	return res, nil
}
