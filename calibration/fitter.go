package calibration

import (
	"context"
	"fmt"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/isotonic"
	"github.com/uyouii/quantile-calibration/quantile"
	"github.com/uyouii/quantile-calibration/utils"
	"go.uber.org/zap"
)

// Fit learns the calibration map from raw predictive quantiles.
//
// For every expected level p the empirical fraction of raw quantiles <= p is
// computed, and an isotonic regression is fit to the (p, fraction) pairs.
// With no levels the raw quantiles themselves serve as levels.
//
// If fewer than two distinct raw quantiles exist, Fit returns the identity
// calibrator together with an error wrapping common.ErrorCalibrationUnavailable.
func Fit(ctx context.Context, raw []float64, levels []float64) (*Calibrator, error) {
	logger := utils.GetLogger(ctx)

	if len(raw) == 0 {
		return nil, fmt.Errorf("no raw quantiles: %w", common.ErrorInvalidInput)
	}
	for i, q := range raw {
		if !utils.InUnitInterval(q) {
			return nil, fmt.Errorf("raw quantile %d = %v outside [0,1]: %w", i, q, common.ErrorInvalidInput)
		}
	}

	if distinct := countDistinct(raw); distinct < 2 {
		logger.Warn("too few distinct quantiles, calibration unavailable", zap.Int("distinct", distinct))
		return Identity(), fmt.Errorf("%d distinct raw quantiles: %w", distinct, common.ErrorCalibrationUnavailable)
	}

	// 1. empirical cdf of the raw quantiles at each level
	if len(levels) == 0 {
		levels = raw
	}
	observed, err := quantile.ObservedFrequencies(raw, levels)
	if err != nil {
		return nil, err
	}

	// 2. monotone fit, level -> observed frequency
	knots, fitted, err := isotonic.Fit(levels, observed, nil)
	if err != nil {
		return nil, err
	}
	if len(knots) < 2 {
		logger.Warn("too few calibration levels, calibration unavailable", zap.Int("levels", len(knots)))
		return Identity(), fmt.Errorf("%d distinct levels: %w", len(knots), common.ErrorCalibrationUnavailable)
	}

	c := newCalibrator(knots, fitted)
	logger.Info("calibration fitted", zap.Int("quantiles", len(raw)),
		zap.Int("knots", len(knots)), zap.Int("plateaus", len(c.plateaus)))
	return c, nil
}

func countDistinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
