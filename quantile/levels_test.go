package quantile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/model"
)

func TestExpectedLevels(t *testing.T) {
	levels := ExpectedLevels(11)
	require.Len(t, levels, 11)
	assert.Equal(t, 0.0, levels[0])
	assert.Equal(t, 1.0, levels[10])
	assert.InDelta(t, 0.3, levels[3], 1e-12)
}

func TestObservedFrequencies(t *testing.T) {
	got, err := ObservedFrequencies(
		[]float64{0.1, 0.2, 0.9, 0.95},
		[]float64{0, 0.25, 0.5, 0.75, 1},
	)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.5, 0.5, 1}, got, 1e-12)

	// the level itself counts as at or below
	got, err = ObservedFrequencies([]float64{0.5, 0.5}, []float64{0.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, got)
}

func TestObservedFrequenciesInvalid(t *testing.T) {
	_, err := ObservedFrequencies(nil, []float64{0.5})
	assert.ErrorIs(t, err, common.ErrorInvalidInput)

	_, err = ObservedFrequencies([]float64{0.5}, []float64{1.5})
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestSampleQuantilesAndMeans(t *testing.T) {
	// two observations, five draws each
	pp, err := model.NewPosteriorPredictive([][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
		{4, 40},
		{5, 50},
	})
	require.NoError(t, err)

	bands, err := SampleQuantiles(context.Background(), Empirical{}, pp, []float64{0, 0.5, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 10}, bands.Lower())
	assert.Equal(t, []float64{5, 50}, bands.Upper())
	for j := 0; j < 2; j++ {
		assert.LessOrEqual(t, bands.Values[0][j], bands.Values[1][j])
		assert.LessOrEqual(t, bands.Values[1][j], bands.Values[2][j])
	}

	assert.Equal(t, []float64{3, 30}, Means(pp))

	_, err = SampleQuantiles(context.Background(), nil, pp, nil)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestDiagnostics(t *testing.T) {
	d, err := UniformityKS([]float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-12)

	coverage, err := Coverage([]float64{0, 5, 10}, []float64{-1, -1, -1}, []float64{1, 6, 9})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3, coverage, 1e-12)

	_, err = Coverage([]float64{0}, nil, nil)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)

	ce, err := CalibrationError([]float64{0, 0.5, 1}, []float64{0, 0.8, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, ce, 1e-12)
}

func TestSampleQuantilesCancelled(t *testing.T) {
	pp, err := model.NewPosteriorPredictive([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, est := range []Estimator{Empirical{}, Kernel{BandwidthAdjust: 1}} {
		_, err = SampleQuantiles(ctx, est, pp, []float64{0.5})
		assert.ErrorIs(t, err, context.Canceled, "%T", est)
	}
}
