package model

import (
	"fmt"
	"math"

	"github.com/uyouii/quantile-calibration/common"
	"gonum.org/v1/gonum/mat"
)

type Observation struct {
	// X is the predictor, a single value for univariate regression
	X []float64 `json:"x"`
	Y float64   `json:"y"`
}

// PosteriorPredictive holds predictive draws with shape (samples, observations):
// column j is the sample set of observation j.
type PosteriorPredictive struct {
	Draws *mat.Dense
}

func NewPosteriorPredictive(rows [][]float64) (*PosteriorPredictive, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty posterior predictive: %w", common.ErrorInvalidInput)
	}

	samples, observations := len(rows), len(rows[0])
	data := make([]float64, 0, samples*observations)
	for i, row := range rows {
		if len(row) != observations {
			return nil, fmt.Errorf("draw %d has %d values, want %d: %w",
				i, len(row), observations, common.ErrorInvalidInput)
		}
		for _, v := range row {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("draw %d contains NaN: %w", i, common.ErrorInvalidInput)
			}
		}
		data = append(data, row...)
	}

	return &PosteriorPredictive{
		Draws: mat.NewDense(samples, observations, data),
	}, nil
}

func (p *PosteriorPredictive) IsEmpty() bool {
	return p == nil || p.Draws == nil || p.Draws.IsEmpty()
}

// Dims returns the number of posterior samples and the number of observations.
func (p *PosteriorPredictive) Dims() (samples, observations int) {
	if p.IsEmpty() {
		return 0, 0
	}
	return p.Draws.Dims()
}

// Column returns a copy of the draws for observation j.
func (p *PosteriorPredictive) Column(j int) []float64 {
	return mat.Col(nil, j, p.Draws)
}

// Rows converts the draws back to the row-major layout used on disk.
func (p *PosteriorPredictive) Rows() [][]float64 {
	samples, _ := p.Dims()
	res := make([][]float64, samples)
	for i := 0; i < samples; i++ {
		res[i] = mat.Row(nil, i, p.Draws)
	}
	return res
}

type Dataset struct {
	Observations []Observation
	Predictive   *PosteriorPredictive
}

func (d *Dataset) Validate() error {
	if d == nil || len(d.Observations) == 0 {
		return fmt.Errorf("no observations: %w", common.ErrorInvalidInput)
	}
	if d.Predictive.IsEmpty() {
		return fmt.Errorf("no posterior predictive draws: %w", common.ErrorInvalidInput)
	}
	_, n := d.Predictive.Dims()
	if n != len(d.Observations) {
		return fmt.Errorf("posterior predictive has %d observations, dataset has %d: %w",
			n, len(d.Observations), common.ErrorInvalidInput)
	}
	return nil
}

func (d *Dataset) Ys() []float64 {
	res := make([]float64, len(d.Observations))
	for i, obs := range d.Observations {
		res[i] = obs.Y
	}
	return res
}

func (d *Dataset) DebugString() string {
	samples, observations := d.Predictive.Dims()
	return fmt.Sprintf("observations: %v, draws: %vx%v", len(d.Observations), samples, observations)
}

type QuantileValue struct {
	Value    float64 `json:"v,omitempty"`
	Quantile float64 `json:"q,omitempty"`
}
