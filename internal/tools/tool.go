package tools

import (
	"context"

	"cryptoadvisor/internal/adapters/ai"
)

// Name identifies a tool exposed to the model for function calling.
type Name string

const (
	NameGetCryptoPrice   Name = "get_crypto_price_gecko"
	NameGetCryptoNews    Name = "get_crypto_news_newsapi"
	NameGetCryptoSignals Name = "get_crypto_signals"
)

// Tool represents a callable capability exposed to the router.
type Tool interface {
	// Name returns the unique tool identifier.
	Name() Name
	// Definition returns the function-calling schema.
	Definition() ai.ToolDefinition
	// Execute runs the tool with the model-provided JSON arguments and
	// returns a user-facing markdown string.
	Execute(ctx context.Context, arguments string) (string, error)
}
