package signals

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoadvisor/internal/domain/market_data"
	"cryptoadvisor/pkg/errors"
)

// baseSnapshot returns a snapshot where every rule is quiet: no
// crossovers, neutral RSI, zero MACD lines, wide Bollinger bands and no
// volume data.
func baseSnapshot() snapshot {
	return snapshot{
		price:      100,
		sma20:      100,
		sma50:      100,
		rsi:        50,
		macd:       0,
		macdSignal: 0,
		macdHist:   0,
		bbUpper:    150,
		bbLower:    50,
	}
}

func findSignal(t *testing.T, signals []Signal, indicator string) Signal {
	t.Helper()
	for _, s := range signals {
		if s.Indicator == indicator {
			return s
		}
	}
	t.Fatalf("no %s signal in %v", indicator, signals)
	return Signal{}
}

func TestDetectSignals_SMACrossover(t *testing.T) {
	t.Run("bullish crossover", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		prev.sma20, prev.sma50 = 99, 100
		curr.sma20, curr.sma50 = 101, 100

		got := findSignal(t, detectSignals(curr, prev), "SMA Crossover")
		assert.Equal(t, SignalBuy, got.Type)
		assert.Equal(t, StrengthStrong, got.Strength)
		assert.Equal(t, "SMA 20 crossed above SMA 50", got.Description)
	})

	t.Run("bearish crossover", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		prev.sma20, prev.sma50 = 101, 100
		curr.sma20, curr.sma50 = 99, 100

		got := findSignal(t, detectSignals(curr, prev), "SMA Crossover")
		assert.Equal(t, SignalSell, got.Type)
		assert.Equal(t, StrengthStrong, got.Strength)
	})

	t.Run("no crossover without prior state", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.sma20, curr.sma50 = 101, 100
		prev.sma20, prev.sma50 = math.NaN(), math.NaN()

		for _, s := range detectSignals(curr, prev) {
			assert.NotEqual(t, "SMA Crossover", s.Indicator)
		}
	})
}

func TestDetectSignals_RSI(t *testing.T) {
	t.Run("oversold", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.rsi = 25.5

		got := findSignal(t, detectSignals(curr, prev), "RSI")
		assert.Equal(t, SignalBuy, got.Type)
		assert.Equal(t, StrengthMedium, got.Strength)
		assert.Equal(t, "RSI oversold at 25.50", got.Description)
	})

	t.Run("recovering from oversold", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.rsi, prev.rsi = 35, 28

		got := findSignal(t, detectSignals(curr, prev), "RSI")
		assert.Equal(t, SignalBuy, got.Type)
		assert.Equal(t, StrengthWeak, got.Strength)
		assert.Equal(t, "RSI recovering from oversold", got.Description)
	})

	t.Run("overbought", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.rsi = 75

		got := findSignal(t, detectSignals(curr, prev), "RSI")
		assert.Equal(t, SignalSell, got.Type)
		assert.Equal(t, StrengthMedium, got.Strength)
		assert.Equal(t, "RSI overbought at 75.00", got.Description)
	})

	t.Run("falling from overbought", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.rsi, prev.rsi = 65, 72

		got := findSignal(t, detectSignals(curr, prev), "RSI")
		assert.Equal(t, SignalSell, got.Type)
		assert.Equal(t, StrengthWeak, got.Strength)
	})

	t.Run("neutral rsi is silent", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.rsi = 55
		for _, s := range detectSignals(curr, prev) {
			assert.NotEqual(t, "RSI", s.Indicator)
		}
	})
}

func TestDetectSignals_MACD(t *testing.T) {
	t.Run("bullish crossover", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		prev.macd, prev.macdSignal = -1, 0
		curr.macd, curr.macdSignal = 1, 0

		got := findSignal(t, detectSignals(curr, prev), "MACD")
		assert.Equal(t, SignalBuy, got.Type)
		assert.Equal(t, StrengthStrong, got.Strength)
		assert.Equal(t, "MACD bullish crossover", got.Description)
	})

	t.Run("bearish crossover", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		prev.macd, prev.macdSignal = 1, 0
		curr.macd, curr.macdSignal = -1, 0

		got := findSignal(t, detectSignals(curr, prev), "MACD")
		assert.Equal(t, SignalSell, got.Type)
		assert.Equal(t, StrengthStrong, got.Strength)
	})

	t.Run("histogram increasing in positive territory", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		prev.macd, prev.macdSignal, prev.macdHist = 2, 1.5, 0.3
		curr.macd, curr.macdSignal, curr.macdHist = 2.5, 2, 0.5

		got := findSignal(t, detectSignals(curr, prev), "MACD")
		assert.Equal(t, SignalBuy, got.Type)
		assert.Equal(t, StrengthWeak, got.Strength)
		assert.Equal(t, "MACD histogram increasing in positive territory", got.Description)
	})

	t.Run("histogram decreasing in negative territory", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		prev.macd, prev.macdSignal, prev.macdHist = -2, -1.5, -0.3
		curr.macd, curr.macdSignal, curr.macdHist = -2.5, -2, -0.5

		got := findSignal(t, detectSignals(curr, prev), "MACD")
		assert.Equal(t, SignalSell, got.Type)
		assert.Equal(t, StrengthWeak, got.Strength)
	})

	t.Run("crossover takes precedence over histogram", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		prev.macd, prev.macdSignal, prev.macdHist = 1, 2, 0.1
		curr.macd, curr.macdSignal, curr.macdHist = 3, 2, 1

		got := findSignal(t, detectSignals(curr, prev), "MACD")
		assert.Equal(t, "MACD bullish crossover", got.Description)
	})
}

func TestDetectSignals_BollingerBands(t *testing.T) {
	t.Run("price at lower band", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.price, curr.bbLower = 49, 50

		got := findSignal(t, detectSignals(curr, prev), "Bollinger Bands")
		assert.Equal(t, SignalBuy, got.Type)
		assert.Equal(t, StrengthMedium, got.Strength)
		assert.Equal(t, "Price at/below lower Bollinger Band", got.Description)
	})

	t.Run("price at upper band", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.price, curr.bbUpper = 151, 150

		got := findSignal(t, detectSignals(curr, prev), "Bollinger Bands")
		assert.Equal(t, SignalSell, got.Type)
		assert.Equal(t, "Price at/above upper Bollinger Band", got.Description)
	})
}

func TestDetectSignals_Volume(t *testing.T) {
	t.Run("spike confirming upward move", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.hasVolume = true
		curr.volume, curr.volumeSMA = 200, 100
		curr.price, prev.price = 105, 100

		got := findSignal(t, detectSignals(curr, prev), "Volume")
		assert.Equal(t, SignalBuy, got.Type)
		assert.Equal(t, "High volume confirming upward price movement", got.Description)
	})

	t.Run("spike confirming downward move", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.hasVolume = true
		curr.volume, curr.volumeSMA = 200, 100
		curr.price, prev.price = 95, 100

		got := findSignal(t, detectSignals(curr, prev), "Volume")
		assert.Equal(t, SignalSell, got.Type)
	})

	t.Run("spike without direction is silent", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.hasVolume = true
		curr.volume, curr.volumeSMA = 200, 100
		curr.price, prev.price = 100, 100

		for _, s := range detectSignals(curr, prev) {
			assert.NotEqual(t, "Volume", s.Indicator)
		}
	})

	t.Run("volume below threshold is silent", func(t *testing.T) {
		curr, prev := baseSnapshot(), baseSnapshot()
		curr.hasVolume = true
		curr.volume, curr.volumeSMA = 140, 100
		curr.price, prev.price = 105, 100

		for _, s := range detectSignals(curr, prev) {
			assert.NotEqual(t, "Volume", s.Indicator)
		}
	})
}

func TestDetectSignals_QuietMarket(t *testing.T) {
	assert.Empty(t, detectSignals(baseSnapshot(), baseSnapshot()))
}

func TestFallbackSignal(t *testing.T) {
	t.Run("bullish trend", func(t *testing.T) {
		curr := baseSnapshot()
		curr.sma20, curr.sma50 = 110, 100
		curr.macd, curr.macdSignal = 1, 0.5

		got := fallbackSignal(curr)
		require.Len(t, got, 1)
		assert.Equal(t, SignalBullishTrend, got[0].Type)
		assert.Equal(t, StrengthMedium, got[0].Strength)
	})

	t.Run("bearish trend", func(t *testing.T) {
		curr := baseSnapshot()
		curr.sma20, curr.sma50 = 90, 100
		curr.macd, curr.macdSignal = -1, -0.5

		got := fallbackSignal(curr)
		require.Len(t, got, 1)
		assert.Equal(t, SignalBearishTrend, got[0].Type)
	})

	t.Run("disagreeing indicators are neutral", func(t *testing.T) {
		curr := baseSnapshot()
		curr.sma20, curr.sma50 = 110, 100
		curr.macd, curr.macdSignal = -1, -0.5

		got := fallbackSignal(curr)
		require.Len(t, got, 1)
		assert.Equal(t, SignalNeutral, got[0].Type)
		assert.Equal(t, StrengthWeak, got[0].Strength)
	})

	t.Run("missing indicators are neutral", func(t *testing.T) {
		curr := baseSnapshot()
		curr.sma50 = math.NaN()

		got := fallbackSignal(curr)
		require.Len(t, got, 1)
		assert.Equal(t, SignalNeutral, got[0].Type)
	})
}

func TestOverallSentiment(t *testing.T) {
	buy := Signal{Type: SignalBuy}
	sell := Signal{Type: SignalSell}

	assert.Equal(t, SentimentBullish, overallSentiment([]Signal{buy, buy, sell}))
	assert.Equal(t, SentimentBearish, overallSentiment([]Signal{sell, sell, buy}))
	assert.Equal(t, SentimentNeutral, overallSentiment([]Signal{buy, sell}))
	assert.Equal(t, SentimentNeutral, overallSentiment([]Signal{{Type: SignalNeutral}}))

	// Trend fallbacks do not vote: a lone trend signal is NEUTRAL.
	assert.Equal(t, SentimentNeutral, overallSentiment([]Signal{{Type: SignalBullishTrend}}))
	assert.Equal(t, SentimentNeutral, overallSentiment([]Signal{{Type: SignalBearishTrend}}))
	assert.Equal(t, SentimentBullish, overallSentiment([]Signal{buy, {Type: SignalBearishTrend}}))
}

func hourlySeries(prices []float64) market_data.PriceSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := market_data.PriceSeries{
		Prices:     prices,
		Timestamps: make([]time.Time, len(prices)),
	}
	for i := range prices {
		series.Timestamps[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return series
}

func TestEngine_Analyze(t *testing.T) {
	engine := NewEngine()

	t.Run("empty series", func(t *testing.T) {
		_, err := engine.Analyze("bitcoin", market_data.PriceSeries{}, 14, "usd")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNoPriceData))
	})

	t.Run("flat market yields opposing signals and neutral sentiment", func(t *testing.T) {
		series := hourlySeries(make([]float64, 50))
		for i := range series.Prices {
			series.Prices[i] = 100
		}

		report, err := engine.Analyze("bitcoin", series, 14, "usd")
		require.NoError(t, err)

		assert.Equal(t, "BITCOIN", report.Symbol)
		assert.Equal(t, "USD", report.Currency)
		assert.Equal(t, "hourly", report.DataFrequency)
		assert.InDelta(t, 100, report.CurrentPrice, 1e-9)

		// Flat series: RSI pins at 100 (overbought sell) while the price
		// sits on the collapsed lower band (buy).
		rsiSig := findSignal(t, report.Signals, "RSI")
		assert.Equal(t, SignalSell, rsiSig.Type)
		bbSig := findSignal(t, report.Signals, "Bollinger Bands")
		assert.Equal(t, SignalBuy, bbSig.Type)
		assert.Equal(t, SentimentNeutral, report.OverallSentiment)

		require.NotNil(t, report.PriceChanges.Day)
		assert.InDelta(t, 0, *report.PriceChanges.Day, 1e-9)
		assert.Nil(t, report.PriceChanges.Week, "168 samples of history are not available")

		require.NotNil(t, report.Indicators.SMA20)
		assert.InDelta(t, 100, *report.Indicators.SMA20, 1e-9)
		assert.Nil(t, report.Indicators.SMA200, "needs 200 points")

		require.NotNil(t, report.PriceLevels)
		assert.InDelta(t, 100, report.PriceLevels.Support, 1e-9)
		assert.InDelta(t, 100, report.PriceLevels.Resistance, 1e-9)
	})

	t.Run("short series has no sma signals", func(t *testing.T) {
		series := hourlySeries([]float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109,
			110, 111, 112, 113, 114, 115, 116, 117, 118})

		report, err := engine.Analyze("ethereum", series, 1, "usd")
		require.NoError(t, err)

		// 19 points: SMA20/SMA50 undefined, so no SMA crossover and the
		// trend fallback cannot engage either.
		assert.Nil(t, report.Indicators.SMA20)
		assert.Nil(t, report.Indicators.SMA50)
		for _, s := range report.Signals {
			assert.NotEqual(t, "SMA Crossover", s.Indicator)
		}
		assert.Nil(t, report.PriceLevels, "needs a full trailing window")
	})

	t.Run("volume data is carried into the report", func(t *testing.T) {
		series := hourlySeries(make([]float64, 30))
		series.Volumes = make([]float64, 30)
		series.MarketCaps = make([]float64, 30)
		for i := range series.Prices {
			series.Prices[i] = 100
			series.Volumes[i] = 1000
			series.MarketCaps[i] = 1234.5678
		}

		report, err := engine.Analyze("solana", series, 7, "usd")
		require.NoError(t, err)

		require.NotNil(t, report.MarketData.Volume24h)
		assert.InDelta(t, 1000, *report.MarketData.Volume24h, 1e-9)
		require.NotNil(t, report.MarketData.VolumeChange)
		assert.InDelta(t, 0, *report.MarketData.VolumeChange, 1e-9)
		require.NotNil(t, report.MarketData.MarketCap)
		assert.InDelta(t, 1234.57, *report.MarketData.MarketCap, 1e-9)
	})
}

func TestBBPosition(t *testing.T) {
	pos := bbPosition(2, 4, 1)
	require.NotNil(t, pos)
	assert.InDelta(t, 0.33, *pos, 1e-9)

	collapsed := bbPosition(100, 100, 100)
	require.NotNil(t, collapsed)
	assert.InDelta(t, 0.5, *collapsed, 1e-9)

	assert.Nil(t, bbPosition(100, math.NaN(), 90))
}
