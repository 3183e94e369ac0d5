package indicators

import (
	"github.com/markcheno/go-talib"
)

// SMA computes the simple moving average over the given window.
// Indices before the window has filled are NaN.
func SMA(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nanSlice(len(values))
	}

	out := talib.Sma(values, window)
	for i := 0; i < window-1; i++ {
		out[i] = nan
	}
	return out
}

// RollingStd computes the rolling standard deviation over the given
// window (population convention, as ta-lib computes it).
// Indices before the window has filled are NaN.
func RollingStd(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nanSlice(len(values))
	}

	out := talib.StdDev(values, window, 1.0)
	for i := 0; i < window-1; i++ {
		out[i] = nan
	}
	return out
}
