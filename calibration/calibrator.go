package calibration

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/quantile-calibration/common"
	"github.com/uyouii/quantile-calibration/model"
	"github.com/uyouii/quantile-calibration/utils"
)

// Calibrator is a fitted non-decreasing map from raw predictive quantiles to
// calibrated probabilities. It is immutable once built.
type Calibrator struct {
	knots  []float64 // strictly increasing raw levels
	fitted []float64 // non-decreasing calibrated values at knots

	plateaus []plateau
}

// plateau is a run of knots sharing one fitted value.
type plateau struct {
	value float64
	lo    float64
	hi    float64
}

func (p plateau) mid() float64 {
	return p.lo + (p.hi-p.lo)/2
}

// Identity returns the calibrator used when no map could be fitted.
func Identity() *Calibrator {
	return &Calibrator{}
}

func newCalibrator(knots, fitted []float64) *Calibrator {
	c := &Calibrator{
		knots:  append([]float64(nil), knots...),
		fitted: make([]float64, len(fitted)),
	}
	for i, v := range fitted {
		c.fitted[i] = clip(v)
	}

	for i, v := range c.fitted {
		last := len(c.plateaus) - 1
		if last >= 0 && math.Abs(c.plateaus[last].value-v) <= plateauTolerance {
			c.plateaus[last].hi = c.knots[i]
			continue
		}
		c.plateaus = append(c.plateaus, plateau{value: v, lo: c.knots[i], hi: c.knots[i]})
	}
	return c
}

func (c *Calibrator) Available() bool {
	return c != nil && len(c.knots) >= 2
}

func (c *Calibrator) Points() []model.CalibrationPoint {
	if c == nil {
		return nil
	}
	res := make([]model.CalibrationPoint, len(c.knots))
	for i := range c.knots {
		res[i] = model.CalibrationPoint{Raw: c.knots[i], Calibrated: c.fitted[i]}
	}
	return res
}

// Forward maps a raw quantile through the fitted map, interpolating linearly
// between knots and holding the end values beyond them.
func (c *Calibrator) Forward(q float64) (float64, error) {
	if !utils.InUnitInterval(q) {
		return 0, fmt.Errorf("raw quantile %v outside [0,1]: %w", q, common.ErrorInvalidInput)
	}
	if !c.Available() {
		return q, common.ErrorCalibrationUnavailable
	}
	return clip(interpolate(c.knots, c.fitted, q)), nil
}

// Inverse returns the raw quantile level whose calibrated value is p.
// Rising segments are inverted exactly. A p on a plateau maps to the
// plateau's midpoint, and a p beyond the fitted range to the nearest
// end plateau's midpoint.
func (c *Calibrator) Inverse(p float64) (float64, error) {
	if !utils.InUnitInterval(p) {
		return 0, fmt.Errorf("target probability %v outside [0,1]: %w", p, common.ErrorInvalidInput)
	}
	if !c.Available() {
		return p, common.ErrorCalibrationUnavailable
	}

	first, last := c.plateaus[0], c.plateaus[len(c.plateaus)-1]
	if p <= first.value+plateauTolerance {
		return first.mid(), nil
	}
	if p >= last.value-plateauTolerance {
		return last.mid(), nil
	}

	for k := 1; k < len(c.plateaus); k++ {
		cur := c.plateaus[k]
		if math.Abs(p-cur.value) <= plateauTolerance {
			return cur.mid(), nil
		}
		if p < cur.value {
			prev := c.plateaus[k-1]
			w := (p - prev.value) / (cur.value - prev.value)
			return clip(prev.hi + w*(cur.lo-prev.hi)), nil
		}
	}
	return last.mid(), nil
}

func (c *Calibrator) ForwardAll(qs []float64) ([]float64, error) {
	return mapAll(qs, c.Forward)
}

func (c *Calibrator) InverseAll(ps []float64) ([]float64, error) {
	return mapAll(ps, c.Inverse)
}

// mapAll applies fn to every value. An unavailable calibrator still yields the
// identity result along with the error.
func mapAll(values []float64, fn func(float64) (float64, error)) ([]float64, error) {
	res := make([]float64, len(values))
	var unavailable error
	for i, v := range values {
		out, err := fn(v)
		if errors.Is(err, common.ErrorCalibrationUnavailable) {
			unavailable = err
		} else if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		res[i] = out
	}
	return res, unavailable
}

func interpolate(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}

func clip(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
