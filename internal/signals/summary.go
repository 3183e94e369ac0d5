package signals

import "fmt"

// buildSummary derives the narrative blocks from an assembled report.
// It reads only report fields, so two identical reports always produce
// an identical summary.
func buildSummary(r *Report) Summary {
	var s Summary

	s.PriceAction = fmt.Sprintf("Price is currently at %s %s", fmtNum(r.CurrentPrice), r.Currency)
	if r.PriceChanges.Day != nil {
		s.PriceAction += fmt.Sprintf(", %.2f%% %s in the last 24 hours", *r.PriceChanges.Day, upOrDown(*r.PriceChanges.Day))
	}
	if r.PriceChanges.Week != nil {
		s.PriceAction += fmt.Sprintf(" and %.2f%% %s over the past week", *r.PriceChanges.Week, upOrDown(*r.PriceChanges.Week))
	}

	ind := r.Indicators
	price := r.CurrentPrice
	if ind.SMA20 != nil && ind.SMA50 != nil {
		sma20, sma50 := *ind.SMA20, *ind.SMA50
		switch {
		case price > sma20 && sma20 > sma50:
			s.TrendAnalysis = "Strong uptrend with price above both SMA20 and SMA50"
		case price > sma20 && sma20 < sma50:
			s.TrendAnalysis = "Potential trend reversal with price above SMA20 but SMA20 below SMA50"
		case price < sma20 && sma20 > sma50:
			s.TrendAnalysis = "Short-term weakness in an uptrend (price below SMA20 but SMA20 above SMA50)"
		case price < sma20 && sma20 < sma50:
			s.TrendAnalysis = "Strong downtrend with price below both SMA20 and SMA50"
		}
	}
	if ind.SMA200 != nil {
		if price > *ind.SMA200 {
			s.TrendAnalysis += ". Price is above SMA200, indicating a long-term bullish bias"
		} else {
			s.TrendAnalysis += ". Price is below SMA200, indicating a long-term bearish bias"
		}
	}

	if ind.RSI != nil {
		rsi := *ind.RSI
		switch {
		case rsi < 30:
			s.MomentumAnalysis = fmt.Sprintf("RSI at %.2f indicates oversold conditions", rsi)
		case rsi > 70:
			s.MomentumAnalysis = fmt.Sprintf("RSI at %.2f indicates overbought conditions", rsi)
		default:
			s.MomentumAnalysis = fmt.Sprintf("RSI at %.2f indicates neutral momentum", rsi)
		}
	}
	if ind.MACD != nil && ind.MACDSignal != nil {
		if s.MomentumAnalysis != "" {
			s.MomentumAnalysis += ". "
		}
		if *ind.MACD > *ind.MACDSignal {
			s.MomentumAnalysis += "MACD is above signal line, showing positive momentum"
		} else {
			s.MomentumAnalysis += "MACD is below signal line, showing negative momentum"
		}
	}

	if ind.Volatility != nil {
		vol := *ind.Volatility
		s.VolatilityAnalysis = fmt.Sprintf("Current volatility is %.2f%%", vol)
		switch {
		case vol > 5:
			s.VolatilityAnalysis += ", indicating high market volatility"
		case vol < 2:
			s.VolatilityAnalysis += ", indicating low market volatility"
		default:
			s.VolatilityAnalysis += ", indicating moderate market volatility"
		}
	}
	if ind.BBPosition != nil {
		if s.VolatilityAnalysis != "" {
			s.VolatilityAnalysis += ". "
		}
		switch pos := *ind.BBPosition; {
		case pos < 0.2:
			s.VolatilityAnalysis += "Price is near the lower Bollinger Band, suggesting potential overselling"
		case pos > 0.8:
			s.VolatilityAnalysis += "Price is near the upper Bollinger Band, suggesting potential overbuying"
		default:
			s.VolatilityAnalysis += "Price is within the middle range of the Bollinger Bands"
		}
	}

	for _, sig := range r.Signals {
		s.KeyTakeaways = append(s.KeyTakeaways,
			fmt.Sprintf("%s signal (%s): %s", sig.Type, sig.Strength, sig.Description))
	}
	s.KeyTakeaways = append(s.KeyTakeaways, fmt.Sprintf("Overall sentiment: %s", r.OverallSentiment))

	return s
}

func upOrDown(change float64) string {
	if change > 0 {
		return "up"
	}
	return "down"
}
