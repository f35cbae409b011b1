package quantile

import (
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/quantile-calibration/common"
	"gonum.org/v1/gonum/stat/distuv"
)

// UniformityKS is the one-sample Kolmogorov-Smirnov statistic of the
// quantiles against U(0, 1). Well calibrated quantiles give small values.
func UniformityKS(quantiles []float64) (float64, error) {
	if len(quantiles) == 0 {
		return 0, fmt.Errorf("no quantiles: %w", common.ErrorInvalidInput)
	}

	sorted := append([]float64(nil), quantiles...)
	sort.Float64s(sorted)

	uniform := distuv.Uniform{Min: 0, Max: 1}
	n := float64(len(sorted))
	d := 0.0
	for i, q := range sorted {
		cdf := uniform.CDF(q)
		d = math.Max(d, math.Max(float64(i+1)/n-cdf, cdf-float64(i)/n))
	}
	return d, nil
}

// Coverage returns the fraction of ys inside [lower, upper].
func Coverage(ys, lower, upper []float64) (float64, error) {
	if len(ys) == 0 {
		return 0, fmt.Errorf("no observations: %w", common.ErrorInvalidInput)
	}
	if len(lower) != len(ys) || len(upper) != len(ys) {
		return 0, fmt.Errorf("interval bounds do not match %d observations: %w",
			len(ys), common.ErrorInvalidInput)
	}

	inside := 0
	for i, y := range ys {
		if y >= lower[i] && y <= upper[i] {
			inside++
		}
	}
	return float64(inside) / float64(len(ys)), nil
}

// CalibrationError is the mean absolute gap between expected and observed
// frequencies; zero for a perfectly calibrated model.
func CalibrationError(expected, observed []float64) (float64, error) {
	if len(expected) == 0 || len(expected) != len(observed) {
		return 0, fmt.Errorf("calibration error needs matching non-empty inputs: %w",
			common.ErrorInvalidInput)
	}
	sum := 0.0
	for i := range expected {
		sum += math.Abs(expected[i] - observed[i])
	}
	return sum / float64(len(expected)), nil
}
