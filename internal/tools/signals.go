package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/adapters/coingecko"
	"cryptoadvisor/internal/signals"
	"cryptoadvisor/pkg/errors"
)

const (
	defaultSignalsSymbol   = "bitcoin"
	defaultSignalsDays     = 14
	defaultSignalsCurrency = "usd"
)

// SignalsTool runs full technical analysis over recent market data.
type SignalsTool struct {
	gecko  *coingecko.Client
	engine *signals.Engine
}

func NewSignalsTool(gecko *coingecko.Client, engine *signals.Engine) *SignalsTool {
	return &SignalsTool{gecko: gecko, engine: engine}
}

func (t *SignalsTool) Name() Name { return NameGetCryptoSignals }

func (t *SignalsTool) Definition() ai.ToolDefinition {
	return ai.ToolDefinition{
		Name: string(NameGetCryptoSignals),
		Description: "Get comprehensive trading signals and technical analysis for a cryptocurrency. " +
			"Provides detailed technical indicators, trend analysis, and trading signals " +
			"based on price movements and patterns.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"symbol": map[string]interface{}{
					"type": "string",
					"description": "The CoinGecko asset id, e.g. 'bitcoin', 'ethereum', or 'solana'. " +
						"Use the full name, not the ticker symbol.",
				},
				"days": map[string]interface{}{
					"type":        "integer",
					"description": "Number of days of historical data to analyze (default: 14)",
					"default":     defaultSignalsDays,
				},
				"currency": map[string]interface{}{
					"type":        "string",
					"description": "Currency for price data (default: 'usd')",
					"default":     defaultSignalsCurrency,
				},
			},
			"required": []string{"symbol"},
		},
	}
}

type signalsArgs struct {
	Symbol   string `json:"symbol"`
	Days     int    `json:"days"`
	Currency string `json:"currency"`
}

func (t *SignalsTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args signalsArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errors.Wrap(errors.ErrBadToolArguments, err.Error())
	}
	if strings.TrimSpace(args.Symbol) == "" {
		args.Symbol = defaultSignalsSymbol
	}
	if args.Days <= 0 {
		args.Days = defaultSignalsDays
	}
	if args.Currency == "" {
		args.Currency = defaultSignalsCurrency
	}

	series, err := t.gecko.MarketChart(ctx, strings.ToLower(args.Symbol), args.Days, args.Currency)
	if err != nil {
		return "", errors.Wrapf(err, "market chart for %s", args.Symbol)
	}

	report, err := t.engine.Analyze(args.Symbol, series, args.Days, args.Currency)
	if err != nil {
		if errors.Is(err, errors.ErrNoPriceData) {
			return fmt.Sprintf("Error: no price data returned for %s.", args.Symbol), nil
		}
		return "", err
	}
	return report.Markdown(), nil
}
