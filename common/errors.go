package common

import "errors"

var (
	// ErrorInvalidInput is returned for empty sample sets, mismatched shapes
	// and values out of range.
	ErrorInvalidInput = errors.New("invalid input")

	// ErrorCalibrationUnavailable is returned when there are too few distinct
	// quantiles to fit a calibration map. Calibrators in this state act as the identity.
	ErrorCalibrationUnavailable = errors.New("calibration unavailable")
)
