package utils

import "math"

func FormatFloat(f float64, round int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow(10, float64(round))
	return math.Round(f*scale) / scale
}

func FormatFloats(values []float64, round int32) []float64 {
	res := make([]float64, len(values))
	for i, v := range values {
		res[i] = FormatFloat(v, round)
	}
	return res
}

// Linspace returns num evenly spaced values over [start, stop].
func Linspace(start, stop float64, num int) []float64 {
	if num < 1 {
		return []float64{}
	}
	if num == 1 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	grid := make([]float64, num)
	for i := 0; i < num; i++ {
		grid[i] = start + float64(i)*step
	}
	// pin the end point against accumulated rounding
	grid[num-1] = stop
	return grid
}

func InUnitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
