// Package simulate generates synthetic regression data with a known
// heteroscedastic noise model, plus a posterior predictive that ignores the
// heteroscedasticity. It stands in for a real sampler when exercising the
// calibration pipeline.
package simulate

import (
	"fmt"
	"math"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/config"
	"github.com/uyouii/quantile-calibration/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// TrueFunction is the conditional distribution of y given x.
type TrueFunction func(x float64) distuv.Normal

// Cubic is y = 0.1x^3 + e with e ~ N(0, max(0.5|x|, 0.5)).
func Cubic(x float64) distuv.Normal {
	std := math.Max(math.Abs(x)*0.5, 0.5)
	return distuv.Normal{
		Mu:    0.1 * x * x * x,
		Sigma: std,
	}
}

// Observations draws n points with x uniform on [xMin, xMax].
func Observations(fn TrueFunction, n int, xMin, xMax float64, seed uint64) ([]model.Observation, error) {
	if n < 1 || !(xMin < xMax) {
		return nil, fmt.Errorf("simulate %d observations on [%v, %v]: %w", n, xMin, xMax, common.ErrorInvalidInput)
	}

	src := rand.NewSource(seed)
	xs := distuv.Uniform{Min: xMin, Max: xMax, Src: src}

	res := make([]model.Observation, n)
	for i := range res {
		x := xs.Rand()
		dist := fn(x)
		dist.Src = src
		res[i] = model.Observation{
			X: []float64{x},
			Y: dist.Rand(),
		}
	}
	return res, nil
}

// Predictive draws a posterior predictive centred on the true mean with a
// constant standard deviation noise. A non-positive noise uses the true
// standard deviation, which gives a well specified predictive.
func Predictive(fn TrueFunction, observations []model.Observation, draws int,
	noise float64, seed uint64) (*model.PosteriorPredictive, error) {
	if draws < 1 || len(observations) == 0 {
		return nil, fmt.Errorf("simulate %d draws for %d observations: %w",
			draws, len(observations), common.ErrorInvalidInput)
	}

	src := rand.NewSource(seed)
	dists := make([]distuv.Normal, len(observations))
	for j, obs := range observations {
		if len(obs.X) == 0 {
			return nil, fmt.Errorf("observation %d has no predictor: %w", j, common.ErrorInvalidInput)
		}
		dist := fn(obs.X[0])
		if noise > 0 {
			dist.Sigma = noise
		}
		dist.Src = src
		dists[j] = dist
	}

	rows := make([][]float64, draws)
	for i := range rows {
		rows[i] = make([]float64, len(observations))
		for j := range dists {
			rows[i][j] = dists[j].Rand()
		}
	}
	return model.NewPosteriorPredictive(rows)
}

// Generate builds the main and hold-out datasets described by cfg.
// The hold-out dataset is nil when cfg.Holdout is zero.
func Generate(fn TrueFunction, cfg config.SimulationConfig) (main *model.Dataset, holdout *model.Dataset, err error) {
	main, err = generate(fn, cfg, cfg.Observations, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Holdout > 0 {
		holdout, err = generate(fn, cfg, cfg.Holdout, cfg.Seed+1)
		if err != nil {
			return nil, nil, err
		}
	}
	return main, holdout, nil
}

func generate(fn TrueFunction, cfg config.SimulationConfig, n int, seed uint64) (*model.Dataset, error) {
	observations, err := Observations(fn, n, cfg.XMin, cfg.XMax, seed)
	if err != nil {
		return nil, err
	}
	// predictive draws use a separate stream from the observations
	predictive, err := Predictive(fn, observations, cfg.Draws, cfg.Noise, seed+1000)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{
		Observations: observations,
		Predictive:   predictive,
	}, nil
}
