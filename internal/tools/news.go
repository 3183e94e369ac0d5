package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/adapters/newsapi"
	"cryptoadvisor/pkg/errors"
)

const defaultNewsSearch = "cryptocurrency OR bitcoin OR ethereum OR blockchain"

// NewsTool fetches recent crypto news headlines for a query.
type NewsTool struct {
	news *newsapi.Client
}

func NewNewsTool(news *newsapi.Client) *NewsTool {
	return &NewsTool{news: news}
}

func (t *NewsTool) Name() Name { return NameGetCryptoNews }

func (t *NewsTool) Definition() ai.ToolDefinition {
	return ai.ToolDefinition{
		Name:        string(NameGetCryptoNews),
		Description: "Fetch recent crypto news headlines related to a user query using NewsAPI.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The user's crypto-related news interest, e.g. 'Solana', 'Binance regulation', 'crypto ETFs'.",
				},
			},
			"required": []string{"query"},
		},
	}
}

type newsArgs struct {
	Query string `json:"query"`
}

// Execute returns a markdown digest of matching articles. Upstream
// failures are reported in the digest itself so the conversation can
// continue.
func (t *NewsTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args newsArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errors.Wrap(errors.ErrBadToolArguments, err.Error())
	}

	search := strings.TrimSpace(args.Query)
	if search == "" {
		search = defaultNewsSearch
	}

	articles, err := t.news.RecentArticles(ctx, search)
	if err != nil {
		return fmt.Sprintf("❌ Error retrieving news: %v", err), nil
	}
	if len(articles) == 0 {
		return fmt.Sprintf("No news found for: **%s**.", args.Query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📰 News for: **%s**\n\n", args.Query)
	for _, a := range articles {
		fmt.Fprintf(&b, "**%s**\n", a.Title)
		if a.Description != "" {
			fmt.Fprintf(&b, "%s\n", a.Description)
		}
		fmt.Fprintf(&b, "[Read more →](%s)\n\n", a.URL)
	}
	return strings.TrimSpace(b.String()), nil
}
