package ai

import (
	"context"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"cryptoadvisor/internal/metrics"
	"cryptoadvisor/pkg/errors"
	"cryptoadvisor/pkg/logger"
)

// Ensure OpenAIProvider implements ChatProvider
var _ ChatProvider = (*OpenAIProvider)(nil)

// OpenAIProvider implements chat completions using the official OpenAI Go SDK
type OpenAIProvider struct {
	client  openai.Client
	timeout time.Duration
	log     *logger.Logger
}

// NewOpenAIProvider creates a new OpenAI chat provider
func NewOpenAIProvider(apiKey string, timeout time.Duration) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "openai API key is required")
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		timeout: timeout,
		log:     logger.Get().With("component", "openai_chat"),
	}, nil
}

// Chat sends a chat completion request to the OpenAI API
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	for _, tool := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(tool.Parameters),
			},
		))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		metrics.RecordModelCall(req.Model, 0, 0, err)
		return nil, errors.Wrap(err, "openai chat completion failed")
	}
	if len(completion.Choices) == 0 {
		metrics.RecordModelCall(req.Model, 0, 0, errors.ErrExternal)
		return nil, errors.Wrap(errors.ErrExternal, "openai returned no choices")
	}
	metrics.RecordModelCall(req.Model, int(completion.Usage.PromptTokens), int(completion.Usage.CompletionTokens), nil)

	choice := completion.Choices[0]
	resp := &ChatResponse{
		Content: choice.Message.Content,
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}

	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, FunctionCall{
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	p.log.Debugw("Chat completion",
		"model", req.Model,
		"tool_calls", len(resp.ToolCalls),
		"tokens_used", resp.Usage.TotalTokens)

	return resp, nil
}
