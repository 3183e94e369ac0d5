package market_data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoadvisor/pkg/errors"
)

func series(step time.Duration, prices ...float64) PriceSeries {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := PriceSeries{Prices: prices}
	for i := range prices {
		s.Timestamps = append(s.Timestamps, base.Add(time.Duration(i)*step))
	}
	return s
}

func TestPriceSeries_Validate(t *testing.T) {
	t.Run("well formed series passes", func(t *testing.T) {
		s := series(time.Hour, 100, 101, 102)
		require.NoError(t, s.Validate())
	})

	t.Run("misaligned prices and timestamps fail", func(t *testing.T) {
		s := series(time.Hour, 100, 101)
		s.Timestamps = s.Timestamps[:1]
		assert.True(t, errors.Is(s.Validate(), errors.ErrInvalidInput))
	})

	t.Run("misaligned volumes fail", func(t *testing.T) {
		s := series(time.Hour, 100, 101)
		s.Volumes = []float64{500}
		assert.True(t, errors.Is(s.Validate(), errors.ErrInvalidInput))
	})

	t.Run("duplicate timestamps fail", func(t *testing.T) {
		s := series(time.Hour, 100, 101)
		s.Timestamps[1] = s.Timestamps[0]
		assert.True(t, errors.Is(s.Validate(), errors.ErrInvalidInput))
	})

	t.Run("gaps are tolerated", func(t *testing.T) {
		s := series(time.Hour, 100, 101, 102)
		s.Timestamps[2] = s.Timestamps[2].Add(6 * time.Hour)
		require.NoError(t, s.Validate())
	})
}

func TestPriceSeries_DataFrequency(t *testing.T) {
	tests := []struct {
		name string
		step time.Duration
		want string
	}{
		{"hourly cadence", time.Hour, "hourly"},
		{"five minute cadence reads as hourly bucket", 5 * time.Minute, "hourly"},
		{"daily cadence", 24 * time.Hour, "daily"},
		{"weekly cadence spelled out", 7 * 24 * time.Hour, "every 168h0m0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := series(tt.step, 1, 2, 3, 4)
			assert.Equal(t, tt.want, s.DataFrequency())
		})
	}

	t.Run("single point is unknown", func(t *testing.T) {
		assert.Equal(t, "unknown", series(time.Hour, 100).DataFrequency())
	})

	t.Run("mode wins over outliers", func(t *testing.T) {
		s := series(time.Hour, 1, 2, 3, 4, 5)
		s.Timestamps[4] = s.Timestamps[3].Add(72 * time.Hour)
		assert.Equal(t, "hourly", s.DataFrequency())
	})
}

func TestPriceSeries_Availability(t *testing.T) {
	s := series(time.Hour, 100, 101)
	assert.False(t, s.HasVolume())
	assert.False(t, s.HasMarketCap())

	s.Volumes = []float64{500, 600}
	s.MarketCaps = []float64{1e9, 1.1e9}
	assert.True(t, s.HasVolume())
	assert.True(t, s.HasMarketCap())

	assert.Equal(t, 2, s.Len())
}
