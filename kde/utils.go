package kde

import (
	"sort"
)

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}

func InitOnes(n int) []float64 {
	res := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, 1)
	}
	return res
}

// normalize scales weights to sum to one, nil if the sum is not positive.
func normalize(weights []float64) []float64 {
	sum := 0.0
	for _, v := range weights {
		sum += v
	}
	if sum <= 0 {
		return nil
	}
	res := make([]float64, len(weights))
	for i := range weights {
		res[i] = weights[i] / sum
	}
	return res
}

// sortPairs returns copies of x and weights ordered by x.
func sortPairs(x, weights []float64) ([]float64, []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return x[idx[a]] < x[idx[b]]
	})

	sortedX := make([]float64, len(x))
	sortedW := make([]float64, len(x))
	for i, j := range idx {
		sortedX[i] = x[j]
		sortedW[i] = weights[j]
	}
	return sortedX, sortedW
}
