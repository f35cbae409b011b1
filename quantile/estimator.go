package quantile

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/kde"
	"github.com/uyouii/quantile-calibration/model"
	"github.com/uyouii/quantile-calibration/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

const (
	MethodEmpirical = "empirical"
	MethodKernel    = "kernel"
)

// Estimator reads a predictive distribution off a sample set: Quantile is
// its CDF at y, Values its inverse at the given levels.
type Estimator interface {
	Quantile(y float64, samples []float64) (float64, error)
	Values(ctx context.Context, samples []float64, levels []float64) ([]float64, error)
}

func NewEstimator(method string, bwAdjust float64) (Estimator, error) {
	switch method {
	case "", MethodEmpirical:
		return Empirical{}, nil
	case MethodKernel:
		return Kernel{BandwidthAdjust: bwAdjust}, nil
	}
	return nil, fmt.Errorf("unknown estimator method %q: %w", method, common.ErrorInvalidInput)
}

// PredictiveQuantile returns the fraction of samples that are <= y.
func PredictiveQuantile(y float64, samples []float64) (float64, error) {
	if err := validateSamples(y, samples); err != nil {
		return 0, err
	}
	count := 0
	for _, s := range samples {
		if s <= y {
			count++
		}
	}
	return float64(count) / float64(len(samples)), nil
}

type Empirical struct{}

func (Empirical) Quantile(y float64, samples []float64) (float64, error) {
	return PredictiveQuantile(y, samples)
}

// Values interpolates the empirical CDF of the samples linearly.
func (Empirical) Values(ctx context.Context, samples []float64, levels []float64) ([]float64, error) {
	if err := validateSamples(0, samples); err != nil {
		return nil, err
	}
	if err := validateLevels(levels); err != nil {
		return nil, err
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	res := make([]float64, len(levels))
	for i, p := range levels {
		res[i] = stat.Quantile(p, stat.LinInterp, sorted, nil)
	}
	return res, nil
}

// Kernel smooths the samples with a Gaussian KDE before reading it.
type Kernel struct {
	BandwidthAdjust float64
}

func (k Kernel) Quantile(y float64, samples []float64) (float64, error) {
	if err := validateSamples(y, samples); err != nil {
		return 0, err
	}
	density, err := kde.NewKDEUnivariate(samples, nil, k.BandwidthAdjust)
	if err != nil {
		return 0, err
	}
	return math.Max(0, math.Min(1, density.Cdf(y))), nil
}

func (k Kernel) Values(ctx context.Context, samples []float64, levels []float64) ([]float64, error) {
	if err := validateLevels(levels); err != nil {
		return nil, err
	}
	quantiles, err := kde.CalculateQuantileValues(ctx, samples, levels, k.BandwidthAdjust)
	if err != nil {
		return nil, err
	}
	res := make([]float64, len(quantiles))
	for i, q := range quantiles {
		res[i] = q.Value
	}
	return res, nil
}

// PredictiveQuantiles estimates one quantile per observation. With workers > 1
// observations are spread over a bounded pool; the result keeps observation order.
func PredictiveQuantiles(ctx context.Context, est Estimator, ys []float64,
	pp *model.PosteriorPredictive, workers int) ([]float64, error) {
	logger := utils.GetLogger(ctx)

	if est == nil {
		est = Empirical{}
	}
	samples, observations := pp.Dims()
	if samples == 0 {
		return nil, fmt.Errorf("empty posterior predictive: %w", common.ErrorInvalidInput)
	}
	if observations != len(ys) {
		return nil, fmt.Errorf("posterior predictive has %d observations, got %d values: %w",
			observations, len(ys), common.ErrorInvalidInput)
	}

	res := make([]float64, observations)

	estimate := func(ctx context.Context, j int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		q, err := est.Quantile(ys[j], pp.Column(j))
		if err != nil {
			return fmt.Errorf("observation %d: %w", j, err)
		}
		res[j] = q
		return nil
	}

	if workers <= 1 {
		for j := range ys {
			if err := estimate(ctx, j); err != nil {
				return nil, err
			}
		}
	} else {
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for j := range ys {
			j := j
			g.Go(func() error {
				return estimate(gCtx, j)
			})
		}
		if err := g.Wait(); err != nil {
			logger.Error("PredictiveQuantiles failed", zap.Error(err), zap.Int("workers", workers))
			return nil, err
		}
	}

	logger.Debug("predictive quantiles estimated",
		zap.Int("observations", observations), zap.Int("samples", samples), zap.Int("workers", workers))
	return res, nil
}

func validateSamples(y float64, samples []float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("empty sample set: %w", common.ErrorInvalidInput)
	}
	if math.IsNaN(y) {
		return fmt.Errorf("observed value is NaN: %w", common.ErrorInvalidInput)
	}
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("sample %d is not finite: %w", i, common.ErrorInvalidInput)
		}
	}
	return nil
}

func validateLevels(levels []float64) error {
	for i, p := range levels {
		if !utils.InUnitInterval(p) {
			return fmt.Errorf("level %d = %v outside [0,1]: %w", i, p, common.ErrorInvalidInput)
		}
	}
	return nil
}
