package indicators

// BollingerBands computes the middle band as SMA(window) and the
// upper/lower bands at numStd rolling standard deviations around it.
// All three series are NaN until the window has filled.
func BollingerBands(values []float64, window int, numStd float64) (upper, middle, lower []float64) {
	middle = SMA(values, window)
	std := RollingStd(values, window)

	upper = make([]float64, len(values))
	lower = make([]float64, len(values))
	for i := range values {
		upper[i] = middle[i] + numStd*std[i]
		lower[i] = middle[i] - numStd*std[i]
	}
	return upper, middle, lower
}

// Volatility computes rolling standard deviation as a percentage of the
// rolling mean over the given window.
func Volatility(values []float64, window int) []float64 {
	mean := SMA(values, window)
	std := RollingStd(values, window)

	out := make([]float64, len(values))
	for i := range values {
		out[i] = std[i] / mean[i] * 100
	}
	return out
}
