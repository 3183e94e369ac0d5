package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"cryptoadvisor/internal/adapters/ai"
	"cryptoadvisor/internal/router"
	"cryptoadvisor/pkg/logger"
)

// ChatMessage is one message in the request history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat. Either a bare query or a full
// message history may be sent; with a history, the last user message is
// treated as the query.
type ChatRequest struct {
	Query    string        `json:"query,omitempty"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

// ChatResponse is the answer to a routed query.
type ChatResponse struct {
	RequestID      string `json:"request_id"`
	Answer         string `json:"answer"`
	Route          string `json:"route"`
	Source         string `json:"source,omitempty"`
	FunctionCalled string `json:"function_called,omitempty"`
}

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	router *router.Router
	log    *logger.Logger
}

func NewChatHandler(r *router.Router, log *logger.Logger) *ChatHandler {
	return &ChatHandler{router: r, log: log}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	query, history, ok := splitQuery(req)
	if !ok {
		writeError(w, http.StatusBadRequest, "query or messages required")
		return
	}

	requestID := uuid.NewString()
	log := h.log.With("request_id", requestID)
	log.Infow("Chat request received", "history_len", len(history))

	resp, err := h.router.RouteQuery(r.Context(), history, query)
	if err != nil {
		log.Errorw("Chat request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process query")
		return
	}

	out := ChatResponse{
		RequestID: requestID,
		Answer:    resp.Answer,
		Route:     string(resp.Route),
		Source:    resp.Source,
	}
	if resp.Function != nil {
		out.FunctionCalled = resp.Function.Name
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// splitQuery extracts the latest user query and the preceding history.
func splitQuery(req ChatRequest) (string, []ai.Message, bool) {
	if len(req.Messages) > 0 {
		last := req.Messages[len(req.Messages)-1]
		if strings.TrimSpace(last.Content) == "" {
			return "", nil, false
		}
		history := make([]ai.Message, 0, len(req.Messages)-1)
		for _, m := range req.Messages[:len(req.Messages)-1] {
			switch m.Role {
			case string(ai.RoleUser), string(ai.RoleAssistant):
				history = append(history, ai.Message{Role: ai.MessageRole(m.Role), Content: m.Content})
			}
		}
		return last.Content, history, true
	}
	if strings.TrimSpace(req.Query) == "" {
		return "", nil, false
	}
	return req.Query, nil, true
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
