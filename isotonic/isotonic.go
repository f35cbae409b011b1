// Package isotonic fits non-decreasing least-squares regressions with the
// pool-adjacent-violators algorithm.
package isotonic

import (
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/quantile-calibration/common"
)

type block struct {
	value  float64 // weighted mean of the pooled targets
	weight float64
	start  int
	end    int // inclusive
}

// Regression returns the weighted least-squares non-decreasing fit of y,
// taken in the given order. A nil w means unit weights.
func Regression(y, w []float64) ([]float64, error) {
	if err := validate(y, y, w); err != nil {
		return nil, err
	}
	if w == nil {
		w = ones(len(y))
	}
	return pav(y, w), nil
}

// Fit sorts the pairs by x, pools duplicate x into their weighted mean, and
// returns the distinct knots with their fitted non-decreasing values.
func Fit(x, y, w []float64) (knots []float64, fitted []float64, err error) {
	if err := validate(x, y, w); err != nil {
		return nil, nil, err
	}
	if w == nil {
		w = ones(len(x))
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return x[idx[a]] < x[idx[b]]
	})

	knots = make([]float64, 0, len(x))
	targets := make([]float64, 0, len(x))
	weights := make([]float64, 0, len(x))
	for _, i := range idx {
		last := len(knots) - 1
		if last >= 0 && knots[last] == x[i] {
			total := weights[last] + w[i]
			targets[last] = (targets[last]*weights[last] + y[i]*w[i]) / total
			weights[last] = total
			continue
		}
		knots = append(knots, x[i])
		targets = append(targets, y[i])
		weights = append(weights, w[i])
	}

	return knots, pav(targets, weights), nil
}

func pav(y, w []float64) []float64 {
	blocks := make([]block, 0, len(y))
	for i := range y {
		blocks = append(blocks, block{value: y[i], weight: w[i], start: i, end: i})

		// pool while the last two blocks violate monotonicity
		for len(blocks) > 1 {
			n := len(blocks)
			prev, cur := blocks[n-2], blocks[n-1]
			if prev.value <= cur.value {
				break
			}
			weight := prev.weight + cur.weight
			blocks[n-2] = block{
				value:  (prev.value*prev.weight + cur.value*cur.weight) / weight,
				weight: weight,
				start:  prev.start,
				end:    cur.end,
			}
			blocks = blocks[:n-1]
		}
	}

	res := make([]float64, len(y))
	for _, b := range blocks {
		for i := b.start; i <= b.end; i++ {
			res[i] = b.value
		}
	}
	return res
}

func validate(x, y, w []float64) error {
	if len(x) == 0 {
		return fmt.Errorf("isotonic regression on empty input: %w", common.ErrorInvalidInput)
	}
	if len(x) != len(y) {
		return fmt.Errorf("isotonic regression got %d x and %d y: %w",
			len(x), len(y), common.ErrorInvalidInput)
	}
	if w != nil && len(w) != len(y) {
		return fmt.Errorf("isotonic regression got %d weights for %d points: %w",
			len(w), len(y), common.ErrorInvalidInput)
	}
	for i := range y {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			return fmt.Errorf("isotonic regression point %d is NaN: %w", i, common.ErrorInvalidInput)
		}
		if w != nil && !(w[i] > 0) {
			return fmt.Errorf("isotonic regression weight %d is not positive: %w", i, common.ErrorInvalidInput)
		}
	}
	return nil
}

func ones(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = 1
	}
	return res
}
