package signals

import "time"

// SignalType classifies a detected trading signal.
type SignalType string

const (
	SignalBuy          SignalType = "BUY"
	SignalSell         SignalType = "SELL"
	SignalBullishTrend SignalType = "BULLISH_TREND"
	SignalBearishTrend SignalType = "BEARISH_TREND"
	SignalNeutral      SignalType = "NEUTRAL"
)

// Strength grades how strong a signal is.
type Strength string

const (
	StrengthWeak   Strength = "WEAK"
	StrengthMedium Strength = "MEDIUM"
	StrengthStrong Strength = "STRONG"
)

// Sentiment is the aggregated direction of all signals in a report.
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// Signal is one detected trading signal.
type Signal struct {
	Type        SignalType `json:"type"`
	Strength    Strength   `json:"strength"`
	Indicator   string     `json:"indicator"`
	Description string     `json:"description"`
}

// Indicators is the snapshot of indicator values at the latest point of
// the analyzed series. Nil means insufficient history for that indicator.
type Indicators struct {
	SMA20         *float64 `json:"SMA20"`
	SMA50         *float64 `json:"SMA50"`
	SMA200        *float64 `json:"SMA200"`
	RSI           *float64 `json:"RSI"`
	MACD          *float64 `json:"MACD"`
	MACDSignal    *float64 `json:"MACD_Signal"`
	MACDHistogram *float64 `json:"MACD_Histogram"`
	BBUpper       *float64 `json:"BB_Upper"`
	BBMiddle      *float64 `json:"BB_Middle"`
	BBLower       *float64 `json:"BB_Lower"`
	BBPosition    *float64 `json:"BB_Position"`
	Volatility    *float64 `json:"Volatility"`
	PriceVsSMA20  *float64 `json:"Price_vs_SMA20"`
	PriceVsSMA50  *float64 `json:"Price_vs_SMA50"`
}

// MarketData carries volume and market cap context when available.
type MarketData struct {
	Volume24h    *float64 `json:"volume_24h,omitempty"`
	VolumeSMA20  *float64 `json:"volume_sma20,omitempty"`
	VolumeChange *float64 `json:"volume_change,omitempty"`
	MarketCap    *float64 `json:"market_cap,omitempty"`
}

// PriceChanges holds sample-offset percent changes. The offsets are 24
// and 168 samples, which equals 24h and 7d only for hourly data.
type PriceChanges struct {
	Day  *float64 `json:"24h"`
	Week *float64 `json:"7d"`
}

// PriceLevels holds trailing support and resistance.
type PriceLevels struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

// Summary is the deterministic narrative derived from a report.
type Summary struct {
	PriceAction        string   `json:"price_action"`
	TrendAnalysis      string   `json:"trend_analysis"`
	MomentumAnalysis   string   `json:"momentum_analysis"`
	VolatilityAnalysis string   `json:"volatility_analysis"`
	KeyTakeaways       []string `json:"key_takeaways"`
}

// Report is the full technical analysis result for one asset.
type Report struct {
	Symbol           string       `json:"symbol"`
	Currency         string       `json:"currency"`
	Days             int          `json:"days"`
	DataFrequency    string       `json:"data_frequency"`
	CurrentPrice     float64      `json:"current_price"`
	GeneratedAt      time.Time    `json:"timestamp"`
	PriceChanges     PriceChanges `json:"price_changes"`
	Indicators       Indicators   `json:"indicators"`
	MarketData       MarketData   `json:"market_data"`
	Signals          []Signal     `json:"signals"`
	OverallSentiment Sentiment    `json:"overall_sentiment"`
	PriceLevels      *PriceLevels `json:"price_levels,omitempty"`
	Summary          Summary      `json:"analysis_summary"`
}
