package quantile

import (
	"fmt"
	"sort"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/utils"
)

// ExpectedLevels returns n equally spaced quantile levels over [0, 1].
func ExpectedLevels(n int) []float64 {
	return utils.Linspace(0, 1, n)
}

// ObservedFrequencies evaluates the empirical CDF of quantiles at each level:
// the fraction of quantiles <= level.
func ObservedFrequencies(quantiles []float64, levels []float64) ([]float64, error) {
	if len(quantiles) == 0 {
		return nil, fmt.Errorf("no quantiles: %w", common.ErrorInvalidInput)
	}
	if err := validateLevels(levels); err != nil {
		return nil, err
	}

	sorted := append([]float64(nil), quantiles...)
	sort.Float64s(sorted)

	total := float64(len(sorted))
	res := make([]float64, len(levels))
	for i, p := range levels {
		// index of the first quantile > p
		count := sort.Search(len(sorted), func(k int) bool {
			return sorted[k] > p
		})
		res[i] = float64(count) / total
	}
	return res, nil
}
