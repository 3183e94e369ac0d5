package signals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"cryptoadvisor/internal/domain/market_data"
	"cryptoadvisor/internal/indicators"
	"cryptoadvisor/pkg/errors"
	"cryptoadvisor/pkg/logger"
)

const (
	smaShortWindow = 20
	smaLongWindow  = 50
	smaTrendWindow = 200

	rsiPeriod = 14

	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	bbWindow = 20
	bbStdDev = 2.0

	volumeSpikeRatio = 1.5

	dayLag  = 24
	weekLag = 168

	levelsWindow = 20
)

// Engine computes technical analysis reports from raw price series.
type Engine struct {
	log *zap.SugaredLogger
}

func NewEngine() *Engine {
	return &Engine{log: logger.Get().Named("signals")}
}

// snapshot is the indicator state at a single point of the series.
// Missing values are NaN, which makes every comparison against them
// false, so rules quietly skip points without enough history.
type snapshot struct {
	price      float64
	sma20      float64
	sma50      float64
	rsi        float64
	macd       float64
	macdSignal float64
	macdHist   float64
	bbUpper    float64
	bbLower    float64
	volume     float64
	volumeSMA  float64
	hasVolume  bool
}

// Analyze runs the full indicator suite over the series and assembles a
// report with detected signals, sentiment and a narrative summary.
func (e *Engine) Analyze(symbol string, series market_data.PriceSeries, days int, currency string) (*Report, error) {
	if series.Len() == 0 {
		return nil, errors.Wrapf(errors.ErrNoPriceData, "analyze %s", symbol)
	}
	if err := series.Validate(); err != nil {
		return nil, errors.Wrapf(err, "analyze %s", symbol)
	}

	prices := series.Prices
	n := len(prices)
	price := prices[n-1]

	sma20 := indicators.SMA(prices, smaShortWindow)
	sma50 := indicators.SMA(prices, smaLongWindow)
	var sma200 []float64
	if n >= smaTrendWindow {
		sma200 = indicators.SMA(prices, smaTrendWindow)
	}
	rsi := indicators.RSI(prices, rsiPeriod)
	macd, signalLine, hist := indicators.MACD(prices, macdFast, macdSlow, macdSignal)
	bbUpper, bbMiddle, bbLower := indicators.BollingerBands(prices, bbWindow, bbStdDev)
	volatility := indicators.Volatility(prices, bbWindow)

	var volumeSMA []float64
	if series.HasVolume() {
		volumeSMA = indicators.SMA(series.Volumes, smaShortWindow)
	}

	curr := snapshotAt(series, n-1, sma20, sma50, rsi, macd, signalLine, hist, bbUpper, bbLower, volumeSMA)
	prev := snapshotAt(series, n-2, sma20, sma50, rsi, macd, signalLine, hist, bbUpper, bbLower, volumeSMA)

	detected := detectSignals(curr, prev)
	if len(detected) == 0 {
		detected = fallbackSignal(curr)
	}

	report := &Report{
		Symbol:           strings.ToUpper(symbol),
		Currency:         strings.ToUpper(currency),
		Days:             days,
		DataFrequency:    series.DataFrequency(),
		CurrentPrice:     round(price, 4),
		GeneratedAt:      time.Now().UTC(),
		Signals:          detected,
		OverallSentiment: overallSentiment(detected),
	}

	report.PriceChanges = PriceChanges{
		Day:  changePtr(prices, dayLag),
		Week: changePtr(prices, weekLag),
	}

	report.Indicators = Indicators{
		SMA20:         roundPtr(indicators.Last(sma20), 4),
		SMA50:         roundPtr(indicators.Last(sma50), 4),
		SMA200:        roundPtr(indicators.Last(sma200), 4),
		RSI:           roundPtr(indicators.Last(rsi), 2),
		MACD:          roundPtr(indicators.Last(macd), 4),
		MACDSignal:    roundPtr(indicators.Last(signalLine), 4),
		MACDHistogram: roundPtr(indicators.Last(hist), 4),
		BBUpper:       roundPtr(indicators.Last(bbUpper), 4),
		BBMiddle:      roundPtr(indicators.Last(bbMiddle), 4),
		BBLower:       roundPtr(indicators.Last(bbLower), 4),
		BBPosition:    bbPosition(price, indicators.Last(bbUpper), indicators.Last(bbLower)),
		Volatility:    roundPtr(indicators.Last(volatility), 2),
		PriceVsSMA20:  relativePtr(price, indicators.Last(sma20)),
		PriceVsSMA50:  relativePtr(price, indicators.Last(sma50)),
	}

	if series.HasVolume() {
		vols := series.Volumes
		report.MarketData.Volume24h = roundPtr(vols[len(vols)-1], 2)
		report.MarketData.VolumeSMA20 = roundPtr(indicators.Last(volumeSMA), 2)
		if len(vols) >= 2 && vols[len(vols)-2] != 0 {
			report.MarketData.VolumeChange = roundPtr((vols[len(vols)-1]/vols[len(vols)-2]-1)*100, 2)
		}
	}
	if series.HasMarketCap() {
		caps := series.MarketCaps
		report.MarketData.MarketCap = roundPtr(caps[len(caps)-1], 2)
	}

	if n >= levelsWindow {
		lo, hi := prices[n-levelsWindow], prices[n-levelsWindow]
		for _, p := range prices[n-levelsWindow:] {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
		report.PriceLevels = &PriceLevels{Support: round(lo, 4), Resistance: round(hi, 4)}
	}

	report.Summary = buildSummary(report)

	e.log.Debugw("analysis complete",
		"symbol", report.Symbol,
		"points", n,
		"signals", len(report.Signals),
		"sentiment", report.OverallSentiment,
	)
	return report, nil
}

// snapshotAt collects indicator values at index i. Out-of-range indices
// produce an all-NaN snapshot.
func snapshotAt(series market_data.PriceSeries, i int, sma20, sma50, rsi, macd, signalLine, hist, bbUpper, bbLower, volumeSMA []float64) snapshot {
	s := snapshot{
		price:      math.NaN(),
		sma20:      math.NaN(),
		sma50:      math.NaN(),
		rsi:        math.NaN(),
		macd:       math.NaN(),
		macdSignal: math.NaN(),
		macdHist:   math.NaN(),
		bbUpper:    math.NaN(),
		bbLower:    math.NaN(),
		volume:     math.NaN(),
		volumeSMA:  math.NaN(),
	}
	if i < 0 || i >= series.Len() {
		return s
	}
	s.price = series.Prices[i]
	s.sma20 = sma20[i]
	s.sma50 = sma50[i]
	s.rsi = rsi[i]
	s.macd = macd[i]
	s.macdSignal = signalLine[i]
	s.macdHist = hist[i]
	s.bbUpper = bbUpper[i]
	s.bbLower = bbLower[i]
	if series.HasVolume() {
		s.hasVolume = true
		s.volume = series.Volumes[i]
		s.volumeSMA = volumeSMA[i]
	}
	return s
}

// detectSignals applies the rule set to the two latest snapshots. NaN
// inputs disable the rules that depend on them.
func detectSignals(curr, prev snapshot) []Signal {
	var out []Signal

	// Moving average crossovers.
	switch {
	case curr.sma20 > curr.sma50 && prev.sma20 <= prev.sma50:
		out = append(out, Signal{SignalBuy, StrengthStrong, "SMA Crossover", "SMA 20 crossed above SMA 50"})
	case curr.sma20 < curr.sma50 && prev.sma20 >= prev.sma50:
		out = append(out, Signal{SignalSell, StrengthStrong, "SMA Crossover", "SMA 20 crossed below SMA 50"})
	}

	// RSI extremes and exits from them.
	switch {
	case curr.rsi < 30:
		out = append(out, Signal{SignalBuy, StrengthMedium, "RSI", fmt.Sprintf("RSI oversold at %.2f", curr.rsi)})
	case curr.rsi < 40 && prev.rsi < 30:
		out = append(out, Signal{SignalBuy, StrengthWeak, "RSI", "RSI recovering from oversold"})
	case curr.rsi > 70:
		out = append(out, Signal{SignalSell, StrengthMedium, "RSI", fmt.Sprintf("RSI overbought at %.2f", curr.rsi)})
	case curr.rsi > 60 && prev.rsi > 70:
		out = append(out, Signal{SignalSell, StrengthWeak, "RSI", "RSI falling from overbought"})
	}

	// MACD crossovers, then histogram momentum while both lines sit on
	// the same side of zero.
	switch {
	case curr.macd > curr.macdSignal && prev.macd <= prev.macdSignal:
		out = append(out, Signal{SignalBuy, StrengthStrong, "MACD", "MACD bullish crossover"})
	case curr.macd < curr.macdSignal && prev.macd >= prev.macdSignal:
		out = append(out, Signal{SignalSell, StrengthStrong, "MACD", "MACD bearish crossover"})
	case curr.macdHist > 0 && curr.macd > 0 && curr.macdSignal > 0 && curr.macdHist > prev.macdHist:
		out = append(out, Signal{SignalBuy, StrengthWeak, "MACD", "MACD histogram increasing in positive territory"})
	case curr.macdHist < 0 && curr.macd < 0 && curr.macdSignal < 0 && curr.macdHist < prev.macdHist:
		out = append(out, Signal{SignalSell, StrengthWeak, "MACD", "MACD histogram decreasing in negative territory"})
	}

	// Bollinger band touches.
	switch {
	case curr.price <= curr.bbLower:
		out = append(out, Signal{SignalBuy, StrengthMedium, "Bollinger Bands", "Price at/below lower Bollinger Band"})
	case curr.price >= curr.bbUpper:
		out = append(out, Signal{SignalSell, StrengthMedium, "Bollinger Bands", "Price at/above upper Bollinger Band"})
	}

	// Volume spikes only count when they confirm the price direction.
	if curr.hasVolume && curr.volume > curr.volumeSMA*volumeSpikeRatio {
		switch {
		case curr.price > prev.price:
			out = append(out, Signal{SignalBuy, StrengthMedium, "Volume", "High volume confirming upward price movement"})
		case curr.price < prev.price:
			out = append(out, Signal{SignalSell, StrengthMedium, "Volume", "High volume confirming downward price movement"})
		}
	}

	return out
}

// fallbackSignal classifies the broad trend when no rule fired. It
// needs both SMAs and the MACD pair to be defined, otherwise the result
// is a neutral signal.
func fallbackSignal(curr snapshot) []Signal {
	if indicators.Valid(curr.sma20) && indicators.Valid(curr.sma50) &&
		indicators.Valid(curr.macd) && indicators.Valid(curr.macdSignal) {
		switch {
		case curr.sma20 > curr.sma50 && curr.macd > curr.macdSignal:
			return []Signal{{SignalBullishTrend, StrengthMedium, "Combined Analysis", "Positive trend based on multiple indicators"}}
		case curr.sma20 < curr.sma50 && curr.macd < curr.macdSignal:
			return []Signal{{SignalBearishTrend, StrengthMedium, "Combined Analysis", "Negative trend based on multiple indicators"}}
		}
	}
	return []Signal{{SignalNeutral, StrengthWeak, "Combined Analysis", "No strong signals detected"}}
}

// overallSentiment is a majority vote over BUY and SELL signals only.
// Trend fallbacks stay out of the vote, so a lone trend signal reads as
// NEUTRAL sentiment.
func overallSentiment(signals []Signal) Sentiment {
	var buys, sells int
	for _, s := range signals {
		switch s.Type {
		case SignalBuy:
			buys++
		case SignalSell:
			sells++
		}
	}
	switch {
	case buys > sells:
		return SentimentBullish
	case sells > buys:
		return SentimentBearish
	default:
		return SentimentNeutral
	}
}

func bbPosition(price, upper, lower float64) *float64 {
	if !indicators.Valid(upper) || !indicators.Valid(lower) {
		return nil
	}
	if upper == lower {
		v := 0.5
		return &v
	}
	v := round((price-lower)/(upper-lower), 2)
	return &v
}

func relativePtr(price, sma float64) *float64 {
	if !indicators.Valid(sma) || sma == 0 {
		return nil
	}
	v := round((price/sma-1)*100, 2)
	return &v
}

func changePtr(values []float64, lag int) *float64 {
	v, ok := indicators.PeriodChange(values, lag)
	if !ok {
		return nil
	}
	r := round(v, 2)
	return &r
}

func roundPtr(v float64, digits int) *float64 {
	if !indicators.Valid(v) {
		return nil
	}
	r := round(v, digits)
	return &r
}

func round(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}
