package calibration

const (
	DefaultLevelCount = 11

	// fitted values closer than this are treated as the same plateau
	plateauTolerance = 1e-12
)

var (
	// DefaultNominalLevels bound a central 95% interval around the median
	DefaultNominalLevels = []float64{0.025, 0.5, 0.975}
)
