package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/pkg/errors"
)

type countingChat struct {
	content string
	err     error
	calls   int
}

func (c *countingChat) Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &ai.ChatResponse{Content: c.content}, nil
}

func TestClassifier_TrivialQueriesSkipModel(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"whitespace only", "   \t  "},
		{"too short", "hey"},
		{"short after trimming", "  hi  "},
		{"two distinct characters", "aaaaabbbbb"},
		{"one repeated character", "zzzzzzzzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &countingChat{content: "tool_call"}
			c := NewClassifier(chat, "gpt-4o-mini")

			got := c.Classify(context.Background(), tt.query)
			assert.Equal(t, RouteDirect, got)
			assert.Zero(t, chat.calls, "model must not be consulted")
		})
	}
}

func TestClassifier_ModelAnswer(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Route
	}{
		{"knowledge base", "knowledge_base", RouteKnowledgeBase},
		{"tool call", "tool_call", RouteToolCall},
		{"direct", "direct", RouteDirect},
		{"padded and uppercased", "  Tool_Call \n", RouteToolCall},
		{"unknown label falls back to direct", "sentiment_analysis", RouteDirect},
		{"empty answer falls back to direct", "", RouteDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &countingChat{content: tt.content}
			c := NewClassifier(chat, "gpt-4o-mini")

			got := c.Classify(context.Background(), "What is the current price of Bitcoin?")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, chat.calls)
		})
	}
}

func TestClassifier_ModelErrorFallsBackToDirect(t *testing.T) {
	chat := &countingChat{err: errors.ErrExternal}
	c := NewClassifier(chat, "gpt-4o-mini")

	got := c.Classify(context.Background(), "What is the current price of Bitcoin?")
	assert.Equal(t, RouteDirect, got)
}
