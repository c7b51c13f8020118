// Package llmgateway defines the LLM Gateway port: the capability set the
// orchestration engine uses to create model sessions and exchange
// messages, independent of any concrete provider SDK. Concrete adapters
// (Bedrock, Anthropic, OpenAI) live outside this package and implement
// Gateway and Session against their respective client libraries.
package llmgateway

import (
	"context"
	"encoding/json"
	"errors"
)

// Model identifies a provider model, e.g. "anthropic.claude-sonnet-4-5".
type Model string

// Sentinel errors a Gateway or Session implementation returns, wrapped
// with context via fmt.Errorf("...: %w", ...) as needed. Callers use
// errors.Is against these to drive retry classification.
var (
	ErrConnection       = errors.New("llmgateway: connection error")
	ErrRequestFailed    = errors.New("llmgateway: request failed")
	ErrModelUnavailable = errors.New("llmgateway: model not available")
	ErrTimeout          = errors.New("llmgateway: timeout")
)

// ToolSpec is a provider-agnostic description of a callable tool, offered
// to the model in send_with_tools calls.
type ToolSpec struct {
	Name        string
	Description string
	Schema      json.RawMessage
}

// ToolCallRequest is a tool invocation the model asked for via native
// tool-use, inside an LlmResponse.
type ToolCallRequest struct {
	NativeID  string
	ToolName  string
	Arguments json.RawMessage
}

// ToolResultMessage carries a tool's result back to the model, correlated
// by the NativeID the model originally issued in a ToolCallRequest.
type ToolResultMessage struct {
	NativeID string
	Content  string
	IsError  bool
}

// Response is a model turn: free text, and/or native tool-use requests.
type Response struct {
	Text      string
	ToolCalls []ToolCallRequest
}

// Session is a stateful conversation with one model, created by Gateway.
type Session interface {
	// Send sends plain text and returns the model's plain-text reply.
	Send(ctx context.Context, text string) (string, error)
	// SendWithTools sends text alongside a tool catalog and returns a
	// Response that may contain native tool-use requests.
	SendWithTools(ctx context.Context, text string, tools []ToolSpec) (Response, error)
	// SendToolResults returns tool outcomes to the model and returns its
	// next turn, which may itself contain further tool-use requests.
	SendToolResults(ctx context.Context, results []ToolResultMessage) (Response, error)
}

// Gateway creates Sessions bound to a specific model and optional system
// prompt.
type Gateway interface {
	CreateSession(ctx context.Context, model Model) (Session, error)
	CreateSessionWithSystemPrompt(ctx context.Context, model Model, systemPrompt string) (Session, error)
	CreateTextOnlySession(ctx context.Context, model Model, systemPrompt string) (Session, error)
}
