package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/knowledge"
	"cryptoadvisor/internal/metrics"
	"cryptoadvisor/internal/tools"
	"cryptoadvisor/pkg/errors"
	"cryptoadvisor/pkg/logger"
)

// Response sources reported in the attribution footer.
const (
	SourceKnowledgeBase         = "Knowledge Base"
	SourceGeneralKnowledge      = "General Knowledge"
	SourceGeneralNoDocs         = "General Knowledge (No Relevant Docs Found)"
	SourceGeneralRetrievalError = "General Knowledge (Retrieval Error)"
	SourceGeneralNoToolMatch    = "General Knowledge (No Tool Match)"
	SourceGeneralToolCallError  = "General Knowledge (Tool Call Error)"
	SourceGeneralFallback       = "General Knowledge (Fallback)"
)

// fallbackApology is returned when even the last-resort direct answer
// fails. Callers always get a usable response, never an error.
const fallbackApology = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."

// Config holds router model selection and history limits.
type Config struct {
	ChatModel       string
	FunctionModel   string
	HistoryMaxTurns int
}

// Response is the outcome of routing one query.
type Response struct {
	Answer    string
	Route     Route
	Source    string
	Function  *CalledFunction
	Documents []knowledge.Document
}

// Router classifies each query and dispatches it to the knowledge base,
// a tool call, or a direct model answer.
type Router struct {
	chat       ai.ChatProvider
	classifier *Classifier
	retriever  *knowledge.Retriever
	registry   *tools.Registry
	cfg        Config
	log        *zap.SugaredLogger
}

func New(chat ai.ChatProvider, classifier *Classifier, retriever *knowledge.Retriever, registry *tools.Registry, cfg Config) *Router {
	if cfg.HistoryMaxTurns <= 0 {
		cfg.HistoryMaxTurns = 10
	}
	return &Router{
		chat:       chat,
		classifier: classifier,
		retriever:  retriever,
		registry:   registry,
		cfg:        cfg,
		log:        logger.Get().Named("router"),
	}
}

// RouteQuery classifies the latest user message and answers it. History
// is consulted only on the direct path. The returned answer always ends
// with the attribution footer.
func (r *Router) RouteQuery(ctx context.Context, history []ai.Message, query string) (*Response, error) {
	start := time.Now()
	route := r.classifier.Classify(ctx, query)
	defer func() { metrics.RecordQuery(string(route), time.Since(start)) }()
	r.log.Infow("query classified", "route", route)

	var (
		resp *Response
		err  error
	)
	switch route {
	case RouteKnowledgeBase:
		resp, err = r.handleKnowledgeBase(ctx, query)
	case RouteToolCall:
		resp, err = r.handleToolCall(ctx, query)
	default:
		resp, err = r.handleDirect(ctx, history, query)
	}

	if err != nil {
		// Last-resort fallback: answer directly without history.
		r.log.Errorw("route handler failed, falling back to direct answer", "route", route, "error", err)
		answer, directErr := r.directAnswer(ctx, nil, query)
		if directErr != nil {
			r.log.Errorw("fallback direct answer failed", "error", directErr)
			answer = fallbackApology
		}
		resp = &Response{Answer: answer, Source: SourceGeneralFallback}
	}

	resp.Route = route
	resp.Answer += attributionFooter(resp.Source, resp.Documents, resp.Function)
	return resp, nil
}

func (r *Router) handleKnowledgeBase(ctx context.Context, query string) (*Response, error) {
	docs, err := r.retriever.Retrieve(ctx, query)
	if err != nil {
		r.log.Warnw("retrieval failed, answering directly", "error", err)
		answer, directErr := r.directAnswer(ctx, nil, query)
		if directErr != nil {
			return nil, directErr
		}
		return &Response{Answer: answer, Source: SourceGeneralRetrievalError}, nil
	}

	if len(docs) == 0 {
		answer, directErr := r.directAnswer(ctx, nil, query)
		if directErr != nil {
			return nil, directErr
		}
		return &Response{Answer: answer, Source: SourceGeneralNoDocs}, nil
	}

	var context strings.Builder
	for i, doc := range docs {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "Document %d:\n%s", i+1, doc.Content)
	}

	resp, err := r.chat.Chat(ctx, ai.ChatRequest{
		Model: r.cfg.ChatModel,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: fmt.Sprintf(ragPromptTemplate, context.String(), query)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, errors.Wrap(err, "rag answer")
	}
	return &Response{Answer: resp.Content, Source: SourceKnowledgeBase, Documents: docs}, nil
}

func (r *Router) handleToolCall(ctx context.Context, query string) (*Response, error) {
	selection, err := r.chat.Chat(ctx, ai.ChatRequest{
		Model: r.cfg.FunctionModel,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: query},
		},
		Tools:       r.registry.Definitions(),
		Temperature: 0,
	})
	if err != nil {
		return r.toolCallFallback(ctx, query, err)
	}

	call, ok := selection.FirstToolCall()
	if !ok {
		answer, directErr := r.directAnswer(ctx, nil, query)
		if directErr != nil {
			return nil, directErr
		}
		return &Response{Answer: answer, Source: SourceGeneralNoToolMatch}, nil
	}

	tool, ok := r.registry.Get(tools.Name(call.Name))
	if !ok {
		return r.toolCallFallback(ctx, query, errors.Wrapf(errors.ErrUnknownTool, "%s", call.Name))
	}

	var params map[string]interface{}
	if err := json.Unmarshal([]byte(call.Arguments), &params); err != nil {
		return r.toolCallFallback(ctx, query, errors.Wrap(errors.ErrBadToolArguments, err.Error()))
	}

	toolStart := time.Now()
	output, err := tool.Execute(ctx, call.Arguments)
	metrics.RecordToolExecution(call.Name, time.Since(toolStart), err)
	if err != nil {
		return r.toolCallFallback(ctx, query, errors.Wrapf(err, "execute %s", call.Name))
	}

	final, err := r.chat.Chat(ctx, ai.ChatRequest{
		Model: r.cfg.ChatModel,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: fmt.Sprintf(toolAnswerTemplate, query, call.Name, output)},
		},
		Temperature: 0,
	})
	if err != nil {
		return r.toolCallFallback(ctx, query, errors.Wrap(err, "format tool answer"))
	}

	return &Response{
		Answer:   final.Content,
		Function: &CalledFunction{Name: call.Name, Parameters: params},
	}, nil
}

// toolCallFallback answers directly after a tool-path failure.
func (r *Router) toolCallFallback(ctx context.Context, query string, cause error) (*Response, error) {
	r.log.Warnw("tool call failed, answering directly", "error", cause)
	answer, err := r.directAnswer(ctx, nil, query)
	if err != nil {
		return nil, err
	}
	return &Response{Answer: answer, Source: SourceGeneralToolCallError}, nil
}

func (r *Router) handleDirect(ctx context.Context, history []ai.Message, query string) (*Response, error) {
	answer, err := r.directAnswer(ctx, history, query)
	if err != nil {
		return nil, err
	}
	return &Response{Answer: answer, Source: SourceGeneralKnowledge}, nil
}

// directAnswer runs the guarded crypto-only chat, optionally with
// trailing conversation history.
func (r *Router) directAnswer(ctx context.Context, history []ai.Message, query string) (string, error) {
	messages := []ai.Message{{Role: ai.RoleSystem, Content: directSystemPrompt}}
	messages = append(messages, trimHistory(history, r.cfg.HistoryMaxTurns)...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: query})

	resp, err := r.chat.Chat(ctx, ai.ChatRequest{
		Model:       r.cfg.ChatModel,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return "", errors.Wrap(err, "direct answer")
	}
	return resp.Content, nil
}

// trimHistory keeps at most maxTurns exchanges (two messages per turn)
// from the end of the history.
func trimHistory(history []ai.Message, maxTurns int) []ai.Message {
	limit := maxTurns * 2
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
