package model

// CalibrationPoint is one knot of a fitted calibration map.
type CalibrationPoint struct {
	Raw        float64 `json:"raw"`
	Calibrated float64 `json:"calibrated"`
}

type CurvePoint struct {
	Expected     float64 `json:"expected"`
	Uncalibrated float64 `json:"uncalibrated"`
	Calibrated   float64 `json:"calibrated"`
}

// IntervalBands holds, for each level, one predictive value per observation.
type IntervalBands struct {
	Levels []float64   `json:"levels"`
	Values [][]float64 `json:"values"`
}

// Band returns the values at level index i, nil if out of range.
func (b *IntervalBands) Band(i int) []float64 {
	if b == nil || i < 0 || i >= len(b.Values) {
		return nil
	}
	return b.Values[i]
}

func (b *IntervalBands) Lower() []float64 {
	return b.Band(0)
}

func (b *IntervalBands) Upper() []float64 {
	if b == nil {
		return nil
	}
	return b.Band(len(b.Values) - 1)
}

type Diagnostics struct {
	Uniformity       float64 `json:"uniformity_ks"`
	CalibrationError float64 `json:"calibration_error"`
	Coverage         float64 `json:"coverage"`
}

type Report struct {
	Method               string             `json:"method"`
	Observations         int                `json:"observations"`
	EvalObservations     int                `json:"eval_observations"`
	Quantiles            []float64          `json:"quantiles"`
	CalibrationAvailable bool               `json:"calibration_available"`
	CalibrationMap       []CalibrationPoint `json:"calibration_map,omitempty"`
	Curve                []CurvePoint       `json:"curve"`
	NominalLevels        []float64          `json:"nominal_levels"`
	RawLevels            []float64          `json:"raw_levels"`
	Means                []float64          `json:"means"`
	Uncalibrated         *IntervalBands     `json:"uncalibrated"`
	Calibrated           *IntervalBands     `json:"calibrated"`
	Before               Diagnostics        `json:"before"`
	After                Diagnostics        `json:"after"`
}
