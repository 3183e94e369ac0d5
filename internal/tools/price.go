package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/adapters/coingecko"
	"cryptoadvisor/pkg/errors"
)

// PriceTool reports the current USD price of a CoinGecko asset.
type PriceTool struct {
	gecko *coingecko.Client
}

func NewPriceTool(gecko *coingecko.Client) *PriceTool {
	return &PriceTool{gecko: gecko}
}

func (t *PriceTool) Name() Name { return NameGetCryptoPrice }

func (t *PriceTool) Definition() ai.ToolDefinition {
	return ai.ToolDefinition{
		Name: string(NameGetCryptoPrice),
		Description: "Get the current USD price for a cryptocurrency via CoinGecko. " +
			"The `symbol` parameter must be the CoinGecko asset id, " +
			"for example 'bitcoin', 'ethereum', or 'dogecoin', " +
			"not the ticker like 'btc' or 'eth'.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"symbol": map[string]interface{}{
					"type":        "string",
					"description": "The CoinGecko asset id, e.g. 'bitcoin', 'ethereum', or 'dogecoin'.",
				},
			},
			"required": []string{"symbol"},
		},
	}
}

type priceArgs struct {
	Symbol string `json:"symbol"`
}

func (t *PriceTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args priceArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errors.Wrap(errors.ErrBadToolArguments, err.Error())
	}
	if strings.TrimSpace(args.Symbol) == "" {
		return "", errors.Wrap(errors.ErrBadToolArguments, "symbol is required")
	}

	price, err := t.gecko.SimplePrice(ctx, strings.ToLower(args.Symbol), "usd")
	if err != nil {
		if errors.Is(err, errors.ErrSymbolNotSupported) {
			return "Symbol not supported", nil
		}
		return "", err
	}
	return fmt.Sprintf("%s USD", humanize.FormatFloat("#,###.##", price)), nil
}
