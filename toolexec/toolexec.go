// Package toolexec defines the Tool Executor port: the capability the
// orchestration engine uses to run a tool call and to advertise a tool's
// callable spec to the LLM Gateway. Grounded on the teacher's
// runtime/agent/tools.ToolSpec, generalized with the risk-level field the
// distilled spec requires and that the teacher's tool registry lacks.
package toolexec

import (
	"context"
	"encoding/json"

	"github.com/quorumforge/orchestrator/model"
)

// RiskLevel classifies how much autonomy a tool may be given. Absent from
// the teacher's ToolSpec; added here because the Review Pipeline's
// per-action review (review.IsHighRisk) and the Ask path's tool filter key
// off it. It does not affect the Human Intervention Gateway's execution
// confirmation, which is per plan, not per tool.
type RiskLevel string

const (
	// RiskLow tools skip per-action review (read-only, reversible) and are
	// the only tools exposed to the Ask path.
	RiskLow RiskLevel = "low"
	// RiskMedium tools go through per-action review, like RiskHigh.
	RiskMedium RiskLevel = "medium"
	// RiskHigh tools go through per-action review when the phase scope
	// includes it.
	RiskHigh RiskLevel = "high"
)

// ToolSpec describes one callable tool: its canonical name, description,
// risk level, and JSON Schema for its arguments. It is serializable to a
// provider's native tool-use format via llmgateway.ToolSpec.
type ToolSpec struct {
	Name        string
	Description string
	Risk        RiskLevel
	Schema      json.RawMessage
}

// Executor runs ToolCalls and advertises the tools it can run.
type Executor interface {
	Execute(ctx context.Context, call model.ToolCall) (model.ToolResult, error)
	ToolSpecs() []ToolSpec
}
