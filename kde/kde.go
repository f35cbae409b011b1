package kde

import (
	"fmt"
	"math"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/model"
	"gonum.org/v1/gonum/floats"
)

// KDEUnivariate is a weighted Gaussian kernel density estimate over a set of
// posterior predictive draws.
type KDEUnivariate struct {
	// Weights are normalized to sum to one, aligned with Endog.
	Weights []float64

	// endogenous variable, sorted ascending
	Endog []float64

	// An adjustment factor for the bw. Bandwidth becomes bw * adjust.
	bwAdjust float64

	// Defines how far past the lowest and highest values of Endog
	// the quantile search extends, in bandwidth units.
	cut float64

	bw     float64
	kernel Kernel
}

func NewKDEUnivariate(endog []float64, weights []float64, bwAdjust float64) (*KDEUnivariate, error) {
	if len(endog) == 0 {
		return nil, fmt.Errorf("kde needs at least one sample: %w", common.ErrorInvalidInput)
	}

	if len(weights) == 0 {
		weights = InitOnes(len(endog))
	} else if len(weights) != len(endog) {
		return nil, fmt.Errorf("kde got %d weights for %d samples: %w",
			len(weights), len(endog), common.ErrorInvalidInput)
	}

	for i := range endog {
		if math.IsNaN(endog[i]) || math.IsInf(endog[i], 0) {
			return nil, fmt.Errorf("kde sample %d is not finite: %w", i, common.ErrorInvalidInput)
		}
		if weights[i] < 0 || math.IsNaN(weights[i]) {
			return nil, fmt.Errorf("kde weight %d is negative: %w", i, common.ErrorInvalidInput)
		}
	}

	if bwAdjust <= 0 {
		bwAdjust = KdeDefaultBwAdjust
	}

	sortedEndog, sortedWeights := sortPairs(endog, weights)
	normWeights := normalize(sortedWeights)
	if normWeights == nil {
		return nil, fmt.Errorf("kde weights sum to zero: %w", common.ErrorInvalidInput)
	}

	kernel := NewGuassianKernel()
	// weighted spread uses the raw weights, gonum's unbiased variance
	// divides by their sum minus one
	bw := NewNormalReferenceBandWidth(kernel).BandWidth(sortedEndog, sortedWeights) * bwAdjust

	return &KDEUnivariate{
		Weights:  normWeights,
		Endog:    sortedEndog,
		bwAdjust: bwAdjust,
		cut:      KdeDefaultCut,
		bw:       bw,
		kernel:   kernel,
	}, nil
}

func (kde *KDEUnivariate) Bandwidth() float64 {
	return kde.bw
}

// degenerate reports a zero bandwidth, e.g. when all samples are equal.
// The estimate then collapses to the weighted empirical distribution.
func (kde *KDEUnivariate) degenerate() bool {
	return kde.bw <= 0 || math.IsNaN(kde.bw)
}

// Density is NaN for a degenerate estimate.
func (kde *KDEUnivariate) Density(x float64) float64 {
	if kde.degenerate() {
		return math.NaN()
	}

	h := kde.bw
	sum := 0.0
	for i, xi := range kde.Endog {
		u := (x - xi) / h
		sum += kde.kernel.Shape(u) * kde.Weights[i]
	}
	return sum / h
}

func (kde *KDEUnivariate) Cdf(x float64) float64 {
	if kde.degenerate() {
		sum := 0.0
		for i, xi := range kde.Endog {
			if xi > x {
				break
			}
			sum += kde.Weights[i]
		}
		return math.Min(sum, 1)
	}

	h := kde.bw
	sum := 0.0
	for i, xi := range kde.Endog {
		sum += kde.kernel.CumShape((x-xi)/h) * kde.Weights[i]
	}
	return math.Min(sum, 1)
}

// Quantile inverts the CDF by bisection over the support
// [min - cut*bw, max + cut*bw].
func (kde *KDEUnivariate) Quantile(p float64) (*model.QuantileValue, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("kde quantile level %v: %w", p, common.ErrorInvalidInput)
	}

	a := floats.Min(kde.Endog) - kde.cut*kde.bw
	b := floats.Max(kde.Endog) + kde.cut*kde.bw

	if kde.degenerate() {
		// smallest sample whose cumulative weight reaches p
		cum := 0.0
		for i, xi := range kde.Endog {
			cum += kde.Weights[i]
			if cum >= p {
				return &model.QuantileValue{Quantile: p, Value: xi}, nil
			}
		}
		return &model.QuantileValue{Quantile: p, Value: b}, nil
	}

	if p <= kde.Cdf(a) {
		return &model.QuantileValue{Quantile: p, Value: a}, nil
	}
	if p >= kde.Cdf(b) {
		return &model.QuantileValue{Quantile: p, Value: b}, nil
	}

	lo, hi := a, b
	for i := 0; i < KdeQuantileMaxIter && hi-lo > KdeQuantileTolerance; i++ {
		mid := lo + (hi-lo)/2
		if kde.Cdf(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}

	return &model.QuantileValue{
		Quantile: p,
		Value:    lo + (hi-lo)/2,
	}, nil
}
