package simulate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/config"
	"github.com/uyouii/quantile-calibration/quantile"
)

func TestCubic(t *testing.T) {
	d := Cubic(2)
	assert.InDelta(t, 0.8, d.Mu, 1e-12)
	assert.InDelta(t, 1.0, d.Sigma, 1e-12)

	// noise floor near zero
	assert.InDelta(t, 0.5, Cubic(0.2).Sigma, 1e-12)
}

func TestObservationsDeterministic(t *testing.T) {
	a, err := Observations(Cubic, 20, -4, 4, 3)
	require.NoError(t, err)
	b, err := Observations(Cubic, 20, -4, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, obs := range a {
		require.Len(t, obs.X, 1)
		assert.GreaterOrEqual(t, obs.X[0], -4.0)
		assert.LessOrEqual(t, obs.X[0], 4.0)
	}

	_, err = Observations(Cubic, 0, -4, 4, 3)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
}

func TestGenerate(t *testing.T) {
	cfg := config.DefaultConfig().Simulation
	cfg.Observations, cfg.Holdout, cfg.Draws = 30, 10, 100

	main, holdout, err := Generate(Cubic, cfg)
	require.NoError(t, err)
	require.NoError(t, main.Validate())
	require.NoError(t, holdout.Validate())

	samples, observations := main.Predictive.Dims()
	assert.Equal(t, 100, samples)
	assert.Equal(t, 30, observations)
	assert.Len(t, holdout.Observations, 10)

	cfg.Holdout = 0
	_, holdout, err = Generate(Cubic, cfg)
	require.NoError(t, err)
	assert.Nil(t, holdout)
}

func TestHomoscedasticPredictiveIsMiscalibrated(t *testing.T) {
	cfg := config.DefaultConfig().Simulation
	cfg.Observations, cfg.Holdout, cfg.Draws = 400, 0, 300

	ks := func(noise float64) float64 {
		cfg.Noise = noise
		main, _, err := Generate(Cubic, cfg)
		require.NoError(t, err)
		quantiles, err := quantile.PredictiveQuantiles(context.Background(), quantile.Empirical{},
			main.Ys(), main.Predictive, 2)
		require.NoError(t, err)
		d, err := quantile.UniformityKS(quantiles)
		require.NoError(t, err)
		return d
	}

	wellSpecified := ks(0)
	overconfident := ks(0.5)
	assert.Less(t, wellSpecified, 0.1)
	assert.Greater(t, overconfident, wellSpecified)
}
