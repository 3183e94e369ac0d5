package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/pkg/logger"
)

const classifierPromptTemplate = `
Classify the user's query into one of these categories:
- knowledge_base: For questions about crypto psychology, strategies, concepts, or terminology that would benefit from static or specialized knowledge (not real-time).
- tool_call: For questions about current crypto prices, technical analysis (RSI, MACD, trends), buy/sell advice, news updates, or real-time data.
- direct: For general questions or anything NOT related to cryptocurrency (e.g., weather, food, politics).

Examples:
Query: "What is the psychology behind FOMO in crypto trading?"
Classification: knowledge_base

Query: "What's the current price of Bitcoin?"
Classification: tool_call

Query: "Should I buy Ethereum?"
Classification: tool_call

Query: "Give me RSI and MACD for Solana"
Classification: tool_call

Query: "Tell me the latest crypto news"
Classification: tool_call

Query: "Any updates about Solana?"
Classification: tool_call

Query: "What does HODL mean?"
Classification: knowledge_base

Query: "How do I use this app?"
Classification: direct

User query: %s

Classification (just return the category name):
`

// Classifier decides which route a query takes. Trivial queries are
// routed without a model call.
type Classifier struct {
	chat  ai.ChatProvider
	model string
	log   *zap.SugaredLogger
}

func NewClassifier(chat ai.ChatProvider, model string) *Classifier {
	return &Classifier{chat: chat, model: model, log: logger.Get().Named("classifier")}
}

// Classify returns the route for the query. Empty queries, queries
// shorter than 5 characters after trimming, and queries made of at most
// 2 distinct characters go direct without consulting the model. An
// unparseable model answer also falls back to direct.
func (c *Classifier) Classify(ctx context.Context, query string) Route {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len([]rune(trimmed)) < 5 || distinctRunes(strings.ToLower(query)) <= 2 {
		return RouteDirect
	}

	resp, err := c.chat.Chat(ctx, ai.ChatRequest{
		Model: c.model,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: fmt.Sprintf(classifierPromptTemplate, query)},
		},
		Temperature: 0,
	})
	if err != nil {
		c.log.Warnw("classification failed, routing direct", "error", err)
		return RouteDirect
	}

	route, ok := parseRoute(strings.ToLower(strings.TrimSpace(resp.Content)))
	if !ok {
		c.log.Debugw("unrecognized classification", "raw", resp.Content)
		return RouteDirect
	}
	return route
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}
