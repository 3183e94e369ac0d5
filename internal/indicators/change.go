package indicators

// PeriodChange returns the percent change between the last value and the
// value `lag` samples back (series[len-lag], matching a trailing window
// of `lag` points). The second return is false when the series is too
// short.
func PeriodChange(values []float64, lag int) (float64, bool) {
	if lag <= 0 || len(values) < lag {
		return 0, false
	}
	base := values[len(values)-lag]
	if base == 0 {
		return 0, false
	}
	return (values[len(values)-1]/base - 1) * 100, true
}
