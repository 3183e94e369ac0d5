package indicators

// EMA computes the exponential moving average with smoothing 2/(period+1),
// seeded with the first sample. The result is defined from index 0: with
// only one point the EMA is that point, which keeps MACD available for
// short series.
func EMA(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if period <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	multiplier := 2.0 / (float64(period) + 1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}
