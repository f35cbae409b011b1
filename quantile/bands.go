package quantile

import (
	"context"
	"fmt"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/model"
	"gonum.org/v1/gonum/stat"
)

// SampleQuantiles reads each level off every observation's predictive sample
// set, the way an interval is carved from posterior predictive draws.
func SampleQuantiles(ctx context.Context, est Estimator, pp *model.PosteriorPredictive, levels []float64) (*model.IntervalBands, error) {
	if est == nil {
		est = Empirical{}
	}
	if pp.IsEmpty() {
		return nil, fmt.Errorf("empty posterior predictive: %w", common.ErrorInvalidInput)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no interval levels: %w", common.ErrorInvalidInput)
	}
	if err := validateLevels(levels); err != nil {
		return nil, err
	}

	_, observations := pp.Dims()
	bands := &model.IntervalBands{
		Levels: append([]float64(nil), levels...),
		Values: make([][]float64, len(levels)),
	}
	for i := range levels {
		bands.Values[i] = make([]float64, observations)
	}

	for j := 0; j < observations; j++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values, err := est.Values(ctx, pp.Column(j), levels)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", j, err)
		}
		for i, v := range values {
			bands.Values[i][j] = v
		}
	}
	return bands, nil
}

// Means returns the predictive mean of every observation.
func Means(pp *model.PosteriorPredictive) []float64 {
	_, observations := pp.Dims()
	res := make([]float64, observations)
	for j := 0; j < observations; j++ {
		res[j] = stat.Mean(pp.Column(j), nil)
	}
	return res
}
