package router

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/knowledge"
	"cryptoadvisor/internal/tools"
	"cryptoadvisor/pkg/errors"
)

type chatTurn struct {
	resp *ai.ChatResponse
	err  error
}

// scriptedChat replays canned responses and records every request.
type scriptedChat struct {
	t        *testing.T
	turns    []chatTurn
	requests []ai.ChatRequest
}

func (s *scriptedChat) Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.turns) == 0 {
		s.t.Fatalf("unexpected chat call: %+v", req)
	}
	turn := s.turns[0]
	s.turns = s.turns[1:]
	return turn.resp, turn.err
}

func text(content string) chatTurn {
	return chatTurn{resp: &ai.ChatResponse{Content: content}}
}

func toolCall(name, arguments string) chatTurn {
	return chatTurn{resp: &ai.ChatResponse{
		ToolCalls: []ai.FunctionCall{{Name: name, Arguments: arguments}},
	}}
}

type fakeTool struct {
	name     tools.Name
	out      string
	err      error
	lastArgs string
}

func (f *fakeTool) Name() tools.Name { return f.name }

func (f *fakeTool) Definition() ai.ToolDefinition {
	return ai.ToolDefinition{Name: string(f.name)}
}

func (f *fakeTool) Execute(ctx context.Context, arguments string) (string, error) {
	f.lastArgs = arguments
	return f.out, f.err
}

type mapSearcher struct {
	docs []knowledge.Document
	err  error
}

func (m *mapSearcher) Search(ctx context.Context, query string, limit int) ([]knowledge.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func newTestRouter(t *testing.T, chat *scriptedChat, searcher knowledge.Searcher, tool tools.Tool) *Router {
	registry := tools.NewRegistry()
	if tool != nil {
		registry.Register(tool)
	}
	retriever := knowledge.NewRetriever(searcher, chat, knowledge.Config{TopK: 3})
	classifier := NewClassifier(chat, "gpt-4o-mini")
	return New(chat, classifier, retriever, registry, Config{
		ChatModel:     "gpt-4o-mini",
		FunctionModel: "gpt-4o",
	})
}

func TestRouter_DirectRoute(t *testing.T) {
	t.Run("trivial query goes straight to the direct chain", func(t *testing.T) {
		chat := &scriptedChat{t: t, turns: []chatTurn{text("Hello! Ask me about crypto.")}}
		r := newTestRouter(t, chat, &mapSearcher{}, nil)

		resp, err := r.RouteQuery(context.Background(), nil, "hi")
		require.NoError(t, err)

		assert.Equal(t, RouteDirect, resp.Route)
		assert.Equal(t, SourceGeneralKnowledge, resp.Source)
		assert.Equal(t, "Hello! Ask me about crypto.", resp.Answer)

		require.Len(t, chat.requests, 1)
		messages := chat.requests[0].Messages
		require.NotEmpty(t, messages)
		assert.Equal(t, ai.RoleSystem, messages[0].Role)
	})

	t.Run("history is forwarded on the direct path", func(t *testing.T) {
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("direct"),
			text("It stands for hold on for dear life."),
		}}
		r := newTestRouter(t, chat, &mapSearcher{}, nil)

		history := []ai.Message{
			{Role: ai.RoleUser, Content: "What does HODL mean?"},
			{Role: ai.RoleAssistant, Content: "Holding through volatility."},
		}
		resp, err := r.RouteQuery(context.Background(), history, "Can you say that again, longer?")
		require.NoError(t, err)
		assert.Equal(t, SourceGeneralKnowledge, resp.Source)

		// Second request is the direct chain: system + history + query.
		require.Len(t, chat.requests, 2)
		messages := chat.requests[1].Messages
		require.Len(t, messages, 4)
		assert.Equal(t, ai.RoleSystem, messages[0].Role)
		assert.Equal(t, "What does HODL mean?", messages[1].Content)
		assert.Equal(t, "Can you say that again, longer?", messages[3].Content)
	})
}

func TestRouter_ToolCallRoute(t *testing.T) {
	query := "What's the current price of Bitcoin?"

	t.Run("successful tool call formats the result and attributes it", func(t *testing.T) {
		tool := &fakeTool{name: "get_crypto_price_gecko", out: "68,123.45 USD"}
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("tool_call"),
			toolCall("get_crypto_price_gecko", `{"symbol":"bitcoin"}`),
			text("Bitcoin is trading around 68,123.45 USD right now."),
		}}
		r := newTestRouter(t, chat, &mapSearcher{}, tool)

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)

		assert.Equal(t, RouteToolCall, resp.Route)
		assert.Empty(t, resp.Source)
		assert.Equal(t, `{"symbol":"bitcoin"}`, tool.lastArgs)
		assert.True(t, strings.HasSuffix(resp.Answer,
			"\n\n**Function Called:** `get_crypto_price_gecko(symbol='bitcoin')`"))
		assert.Contains(t, resp.Answer, "Bitcoin is trading around")

		// Tool schemas are offered to the function-calling model.
		require.Len(t, chat.requests, 3)
		assert.Len(t, chat.requests[1].Tools, 1)
		assert.Equal(t, "gpt-4o", chat.requests[1].Model)
	})

	t.Run("no tool selected falls back to a direct answer", func(t *testing.T) {
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("tool_call"),
			text("I cannot pick a tool for that."),
			text("Here is a general answer."),
		}}
		r := newTestRouter(t, chat, &mapSearcher{}, &fakeTool{name: "get_crypto_price_gecko"})

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)
		assert.Equal(t, SourceGeneralNoToolMatch, resp.Source)
		assert.Equal(t, "Here is a general answer.", resp.Answer)
	})

	t.Run("unknown tool name falls back to a direct answer", func(t *testing.T) {
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("tool_call"),
			toolCall("get_weather", `{}`),
			text("Plan B answer."),
		}}
		r := newTestRouter(t, chat, &mapSearcher{}, &fakeTool{name: "get_crypto_price_gecko"})

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)
		assert.Equal(t, SourceGeneralToolCallError, resp.Source)
		assert.Nil(t, resp.Function)
	})

	t.Run("malformed arguments fall back to a direct answer", func(t *testing.T) {
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("tool_call"),
			toolCall("get_crypto_price_gecko", `{"symbol":`),
			text("Plan B answer."),
		}}
		r := newTestRouter(t, chat, &mapSearcher{}, &fakeTool{name: "get_crypto_price_gecko"})

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)
		assert.Equal(t, SourceGeneralToolCallError, resp.Source)
	})

	t.Run("tool execution failure falls back to a direct answer", func(t *testing.T) {
		tool := &fakeTool{name: "get_crypto_price_gecko", err: errors.ErrExternal}
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("tool_call"),
			toolCall("get_crypto_price_gecko", `{"symbol":"bitcoin"}`),
			text("Plan B answer."),
		}}
		r := newTestRouter(t, chat, &mapSearcher{}, tool)

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)
		assert.Equal(t, SourceGeneralToolCallError, resp.Source)
		assert.Equal(t, "Plan B answer.", resp.Answer)
	})
}

func TestRouter_KnowledgeBaseRoute(t *testing.T) {
	query := "What is the psychology behind FOMO in crypto trading?"

	t.Run("retrieved documents feed the rag answer and footer", func(t *testing.T) {
		searcher := &mapSearcher{docs: []knowledge.Document{
			{Content: "FOMO drives impulsive entries.", Metadata: map[string]string{"source": "/kb/psychology.md"}},
		}}
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("knowledge_base"),
			text("variant one"),
			text("FOMO is the fear of missing out."),
		}}
		r := newTestRouter(t, chat, searcher, nil)

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)

		assert.Equal(t, RouteKnowledgeBase, resp.Route)
		assert.Equal(t, SourceKnowledgeBase, resp.Source)
		require.Len(t, resp.Documents, 1)
		assert.True(t, strings.HasSuffix(resp.Answer, "\n\n**Source:** psychology.md"))

		// The rag prompt carries the numbered document context.
		ragPrompt := chat.requests[2].Messages[0].Content
		assert.Contains(t, ragPrompt, "Document 1:\nFOMO drives impulsive entries.")
		assert.Contains(t, ragPrompt, query)
	})

	t.Run("retrieval failure degrades to a direct answer", func(t *testing.T) {
		searcher := &mapSearcher{err: errors.ErrUnavailable}
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("knowledge_base"),
			text("variant one"),
			text("General knowledge answer."),
		}}
		r := newTestRouter(t, chat, searcher, nil)

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)
		assert.Equal(t, SourceGeneralRetrievalError, resp.Source)
		assert.Equal(t, "General knowledge answer.", resp.Answer)
	})

	t.Run("no relevant documents degrade to a direct answer", func(t *testing.T) {
		searcher := &mapSearcher{}
		chat := &scriptedChat{t: t, turns: []chatTurn{
			text("knowledge_base"),
			text("variant one"),
			text("General knowledge answer."),
		}}
		r := newTestRouter(t, chat, searcher, nil)

		resp, err := r.RouteQuery(context.Background(), nil, query)
		require.NoError(t, err)
		assert.Equal(t, SourceGeneralNoDocs, resp.Source)
	})
}

func TestRouter_FallbackApology(t *testing.T) {
	// Every model call after classification fails; the router still
	// produces a response instead of an error.
	chat := &scriptedChat{t: t, turns: []chatTurn{
		text("tool_call"),
		{err: errors.ErrExternal},
		{err: errors.ErrExternal},
		{err: errors.ErrExternal},
	}}
	r := newTestRouter(t, chat, &mapSearcher{}, nil)

	resp, err := r.RouteQuery(context.Background(), nil, "what is the price of bitcoin?")
	require.NoError(t, err)
	assert.Equal(t, SourceGeneralFallback, resp.Source)
	assert.Equal(t, fallbackApology, resp.Answer)
}

func TestTrimHistory(t *testing.T) {
	history := make([]ai.Message, 30)
	got := trimHistory(history, 10)
	assert.Len(t, got, 20)

	short := make([]ai.Message, 4)
	assert.Len(t, trimHistory(short, 10), 4)
}
