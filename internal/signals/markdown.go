package signals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Markdown renders the report as the chat-facing analysis document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Technical Analysis\n\n", r.Symbol)
	fmt.Fprintf(&b, "**Symbol:** %s  \n", r.Symbol)
	fmt.Fprintf(&b, "**Time Period Analyzed:** Last %d days (%s data)\n\n", r.Days, r.DataFrequency)
	fmt.Fprintf(&b, "**Current Price:** %s %s\n", fmtNum(r.CurrentPrice), r.Currency)

	var changes []string
	if r.PriceChanges.Day != nil {
		changes = append(changes, fmt.Sprintf("24h: %+.2f%% %s", *r.PriceChanges.Day, trendIcon(*r.PriceChanges.Day)))
	}
	if r.PriceChanges.Week != nil {
		changes = append(changes, fmt.Sprintf("7d: %+.2f%% %s", *r.PriceChanges.Week, trendIcon(*r.PriceChanges.Week)))
	}
	if len(changes) > 0 {
		fmt.Fprintf(&b, "**Price Changes:** %s\n", strings.Join(changes, ", "))
	}

	marketRows := []struct {
		label string
		value *float64
	}{
		{"Volume 24H", r.MarketData.Volume24h},
		{"Volume Sma20", r.MarketData.VolumeSMA20},
		{"Volume Change", r.MarketData.VolumeChange},
		{"Market Cap", r.MarketData.MarketCap},
	}
	hasMarket := false
	for _, row := range marketRows {
		if row.value != nil {
			hasMarket = true
			break
		}
	}
	if hasMarket {
		b.WriteString("\n## Market Data\n")
		for _, row := range marketRows {
			if row.value != nil {
				fmt.Fprintf(&b, "- **%s:** %s\n", row.label, humanize.FormatFloat("#,###.##", *row.value))
			}
		}
	}

	b.WriteString("\n## Key Indicators\n")
	writeIndicatorGroup(&b, "Trend", []indicatorRow{
		{"SMA20", r.Indicators.SMA20},
		{"SMA50", r.Indicators.SMA50},
		{"SMA200", r.Indicators.SMA200},
		{"Price_vs_SMA20", r.Indicators.PriceVsSMA20},
		{"Price_vs_SMA50", r.Indicators.PriceVsSMA50},
	})
	writeIndicatorGroup(&b, "Momentum", []indicatorRow{
		{"RSI", r.Indicators.RSI},
		{"MACD", r.Indicators.MACD},
		{"MACD_Signal", r.Indicators.MACDSignal},
		{"MACD_Histogram", r.Indicators.MACDHistogram},
	})
	writeIndicatorGroup(&b, "Volatility", []indicatorRow{
		{"BB_Upper", r.Indicators.BBUpper},
		{"BB_Middle", r.Indicators.BBMiddle},
		{"BB_Lower", r.Indicators.BBLower},
		{"BB_Position", r.Indicators.BBPosition},
		{"Volatility", r.Indicators.Volatility},
	})

	b.WriteString("\n## Trading Signals\n")
	if len(r.Signals) > 0 {
		for _, sig := range r.Signals {
			fmt.Fprintf(&b, "%s **%s** (%s): %s - %s\n",
				signalIcon(sig.Type), sig.Type, sig.Strength, sig.Indicator, sig.Description)
		}
	} else {
		b.WriteString("No specific trading signals detected\n")
	}

	fmt.Fprintf(&b, "\n**Overall Sentiment:** %s %s\n", sentimentIcon(r.OverallSentiment), r.OverallSentiment)

	if r.PriceLevels != nil {
		b.WriteString("\n## Price Levels\n")
		fmt.Fprintf(&b, "- **Support:** %s\n", fmtNum(r.PriceLevels.Support))
		fmt.Fprintf(&b, "- **Resistance:** %s\n", fmtNum(r.PriceLevels.Resistance))
	}

	b.WriteString("\n## Analysis Summary\n")
	fmt.Fprintf(&b, "\n**Price Action:**\n%s\n", r.Summary.PriceAction)
	fmt.Fprintf(&b, "\n**Trend Analysis:**\n%s\n", r.Summary.TrendAnalysis)
	fmt.Fprintf(&b, "\n**Momentum Analysis:**\n%s\n", r.Summary.MomentumAnalysis)
	fmt.Fprintf(&b, "\n**Volatility Analysis:**\n%s\n", r.Summary.VolatilityAnalysis)
	b.WriteString("\n**Key Takeaways:**\n")
	for i, takeaway := range r.Summary.KeyTakeaways {
		fmt.Fprintf(&b, "%d. %s\n", i+1, takeaway)
	}

	return b.String()
}

type indicatorRow struct {
	name  string
	value *float64
}

func writeIndicatorGroup(b *strings.Builder, title string, rows []indicatorRow) {
	fmt.Fprintf(b, "\n### %s\n", title)
	for _, row := range rows {
		if row.value != nil {
			fmt.Fprintf(b, "- **%s:** %s\n", row.name, fmtNum(*row.value))
		}
	}
}

// fmtNum prints a float without trailing zeros, e.g. 45123.4567 or 68.5.
func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func trendIcon(change float64) string {
	if change > 0 {
		return "📈"
	}
	return "📉"
}

func signalIcon(t SignalType) string {
	switch t {
	case SignalBuy:
		return "🟢"
	case SignalSell:
		return "🔴"
	default:
		return "⚪"
	}
}

func sentimentIcon(s Sentiment) string {
	switch s {
	case SentimentBullish:
		return "🟢"
	case SentimentBearish:
		return "🔴"
	default:
		return "⚪"
	}
}
