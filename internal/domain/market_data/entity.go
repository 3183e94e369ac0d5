package market_data

import (
	"time"

	"cryptoadvisor/pkg/errors"
)

// PriceSeries is an ordered-by-time price history for one asset.
// Volumes and MarketCaps are aligned with Prices when present, nil otherwise.
type PriceSeries struct {
	Timestamps []time.Time
	Prices     []float64
	Volumes    []float64
	MarketCaps []float64
}

// Len returns the number of points in the series.
func (s PriceSeries) Len() int {
	return len(s.Prices)
}

// HasVolume reports whether volume data is available.
func (s PriceSeries) HasVolume() bool {
	return len(s.Volumes) == s.Len() && s.Len() > 0
}

// HasMarketCap reports whether market cap data is available.
func (s PriceSeries) HasMarketCap() bool {
	return len(s.MarketCaps) == s.Len() && s.Len() > 0
}

// Validate checks series invariants: aligned lengths and strictly
// increasing timestamps. Gaps are tolerated.
func (s PriceSeries) Validate() error {
	if len(s.Timestamps) != len(s.Prices) {
		return errors.Wrapf(errors.ErrInvalidInput, "timestamps (%d) and prices (%d) misaligned", len(s.Timestamps), len(s.Prices))
	}
	if s.Volumes != nil && len(s.Volumes) != len(s.Prices) {
		return errors.Wrap(errors.ErrInvalidInput, "volumes misaligned with prices")
	}
	if s.MarketCaps != nil && len(s.MarketCaps) != len(s.Prices) {
		return errors.Wrap(errors.ErrInvalidInput, "market caps misaligned with prices")
	}
	for i := 1; i < len(s.Timestamps); i++ {
		if !s.Timestamps[i].After(s.Timestamps[i-1]) {
			return errors.Wrapf(errors.ErrInvalidInput, "timestamps not strictly increasing at index %d", i)
		}
	}
	return nil
}

// DataFrequency infers the sampling cadence from the most common
// timestamp delta: "hourly", "daily", or "every <delta>".
func (s PriceSeries) DataFrequency() string {
	if len(s.Timestamps) < 2 {
		return "unknown"
	}

	counts := make(map[time.Duration]int)
	var mode time.Duration
	best := 0
	for i := 1; i < len(s.Timestamps); i++ {
		d := s.Timestamps[i].Sub(s.Timestamps[i-1])
		counts[d]++
		if counts[d] > best {
			best = counts[d]
			mode = d
		}
	}

	switch {
	case mode <= time.Hour:
		return "hourly"
	case mode <= 24*time.Hour:
		return "daily"
	default:
		return "every " + mode.String()
	}
}
