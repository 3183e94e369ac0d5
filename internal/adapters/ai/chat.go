package ai

import "context"

// ChatProvider is the contract for LLM chat completion backends.
type ChatProvider interface {
	// Chat sends a chat completion request with optional tool calling.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Tools       []ToolDefinition
	Temperature float64
	MaxTokens   int
}

// Message represents a single message in the conversation.
type Message struct {
	Role    MessageRole
	Content string
}

// MessageRole defines the role of a message sender.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ToolDefinition describes a function that the model can call.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON schema
}

// ChatResponse represents the response from a chat completion.
type ChatResponse struct {
	Content   string
	ToolCalls []FunctionCall
	Usage     Usage
}

// FunctionCall represents a function call requested by the model.
type FunctionCall struct {
	Name      string
	Arguments string // JSON-encoded arguments
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// FirstToolCall returns the first function call in the response, if any.
func (r *ChatResponse) FirstToolCall() (FunctionCall, bool) {
	if len(r.ToolCalls) == 0 {
		return FunctionCall{}, false
	}
	return r.ToolCalls[0], true
}
