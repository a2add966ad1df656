package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// message roles shared by both providers
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// a single conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// one unit of raw provider output before normalization. Exactly one of
// Text / ToolCall / Err is meaningful per event.
type RawEvent struct {
	Text     string
	ToolCall bool
	Err      error
}

// one unit of normalized, display-ready text. Chunks are concatenation-safe:
// joining Text in emission order yields the full answer. A non-nil Err is
// terminal for the stream.
type StreamChunk struct {
	Text string
	Err  error
}

// per-call generation parameters
type Options struct {
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float32
	EnableSearch bool
}

// Provider is implemented by each upstream chat-completion backend.
// Stream yields incremental raw events until the upstream stream ends;
// Complete is the non-streaming path used for classification and reranking.
type Provider interface {
	Name() string
	Stream(ctx context.Context, messages []Message, opts Options) (<-chan RawEvent, error)
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// APIError carries the upstream HTTP status for a failed provider call
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider API error (status %d): %s", e.StatusCode, e.Message)
}

// reports whether an error is a quota/rate exhaustion from the upstream API
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 429 {
		return true
	}

	// the Gemini SDK surfaces quota exhaustion in the error text
	msg := err.Error()

	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "429") ||
		strings.Contains(strings.ToLower(msg), "quota")
}
