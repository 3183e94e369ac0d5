package indicators

import "math"

var nan = math.NaN()

// nanSlice returns a slice of length n filled with NaN.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Valid reports whether v is a defined indicator value.
func Valid(v float64) bool {
	return !math.IsNaN(v)
}

// Last returns the last value of a series, or NaN for an empty series.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return nan
	}
	return series[len(series)-1]
}

// Prev returns the second-to-last value of a series, or NaN when the
// series has fewer than two points.
func Prev(series []float64) float64 {
	if len(series) < 2 {
		return nan
	}
	return series[len(series)-2]
}
