package isotonic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/quantile-calibration/common"
)

func TestRegression(t *testing.T) {
	tests := []struct {
		name string
		y    []float64
		w    []float64
		want []float64
	}{
		{"already monotone", []float64{0, 0.5, 0.5, 1}, nil, []float64{0, 0.5, 0.5, 1}},
		{"single violator", []float64{1, 3, 2, 4}, nil, []float64{1, 2.5, 2.5, 4}},
		{"decreasing pools everything", []float64{3, 2, 1}, nil, []float64{2, 2, 2}},
		{"cascade", []float64{1, 4, 5, 0}, nil, []float64{1, 3, 3, 3}},
		{"weighted", []float64{2, 0}, []float64{3, 1}, []float64{1.5, 1.5}},
		{"single point", []float64{0.7}, nil, []float64{0.7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Regression(tt.y, tt.w)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestRegressionIsMonotone(t *testing.T) {
	y := []float64{0.3, 0.1, 0.9, 0.4, 0.4, 0.2, 1, 0.8, 0.95, 0.5}
	got, err := Regression(y, nil)
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1], got[i])
	}

	// pooling preserves the total
	sumY, sumGot := 0.0, 0.0
	for i := range y {
		sumY += y[i]
		sumGot += got[i]
	}
	assert.InDelta(t, sumY, sumGot, 1e-12)
}

func TestFitSortsAndMergesDuplicates(t *testing.T) {
	x := []float64{0.5, 0.1, 0.5, 0.9}
	y := []float64{0.2, 0.3, 0.6, 1.0}

	knots, fitted, err := Fit(x, y, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.5, 0.9}, knots)
	assert.InDeltaSlice(t, []float64{0.3, 0.4, 1.0}, fitted, 1e-12)
}

func TestFitInvalidInput(t *testing.T) {
	_, _, err := Fit(nil, nil, nil)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)

	_, _, err = Fit([]float64{1, 2}, []float64{1}, nil)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)

	_, _, err = Fit([]float64{1, 2}, []float64{1, 2}, []float64{1, 0})
	assert.ErrorIs(t, err, common.ErrorInvalidInput)

	_, err = Regression([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}
