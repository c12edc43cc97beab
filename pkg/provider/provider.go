package provider

import (
	"context"
	"time"
)

// Client defines the interface to the chat-completions backend.
type Client interface {
	// Complete sends a completion request and returns the model response.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name returns the backend identifier (e.g. "openai").
	Name() string
}

// Request represents a single completion request. The harness makes one
// request per test case: a system prompt, one user message, and the tools
// the agent under evaluation is allowed to call.
type Request struct {
	Model       string  `json:"model"`
	System      string  `json:"system,omitempty"`
	User        string  `json:"user"`
	Tools       []Tool  `json:"tools,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Tool describes a function the model can invoke.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// Response represents a completion response.
type Response struct {
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Usage      Usage      `json:"usage"`
	StopReason string     `json:"stop_reason"`
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

const (
	defaultMaxRetries = 3
	baseBackoff       = 500 * time.Millisecond
)

// retryableError wraps errors that should trigger a retry.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// isRetryable returns true if the error should trigger a retry.
func isRetryable(err error) bool {
	_, ok := err.(*retryableError)
	return ok
}
