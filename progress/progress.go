// Package progress defines the Progress Notifier port: a capability set of
// named, optional callbacks the Agent Controller invokes as a run
// progresses. Every callback defaults to a no-op, and all calls are
// synchronous from the engine's perspective — a notifier must not block
// meaningfully or it stalls the run. Grounded on the shape of the
// teacher's hooks.Bus event catalogue, collapsed from a typed-event bus
// into a plain struct of callbacks since this engine has a single
// in-process subscriber, not a distributed event fabric.
package progress

import "github.com/quorumforge/orchestrator/model"

// Notifier holds one optional callback per progress event the engine can
// emit. A zero-value Notifier is entirely silent.
type Notifier struct {
	PhaseChanged func(from, to model.AgentPhase)

	TaskStarted  func(taskID, description string)
	TaskComplete func(taskID string, result model.ToolResult)

	ToolCallStarted func(taskID, toolName string)
	ToolResult      func(taskID, toolName string, result model.ToolResult)
	ToolError       func(taskID, toolName string, err error)
	ToolRetry       func(taskID, toolName string, attempt int)

	QuorumStarted          func(round int, participants int)
	QuorumModelComplete    func(round int, modelName string, approved bool)
	QuorumCompleteWithVotes func(round int, result model.VoteResult)

	EnsembleStarted       func(k int)
	EnsemblePlanGenerated func(modelName string, plan model.Plan)
	EnsembleVotingStarted func()
	EnsembleModelFailed   func(modelName string, err error)
	EnsembleComplete      func(winnerModel string)
	EnsembleFallback      func(reason string)

	PlanRevision func(round int, feedback string)
	ActionRetry  func(taskID string, attempt int, feedback string)

	HumanInterventionRequired  func(reason string)
	ExecutionConfirmationRequired func(taskID, toolName string)

	LLMStreamStart func(sessionLabel string)
	LLMStreamChunk func(sessionLabel, chunk string)
	LLMStreamEnd   func(sessionLabel string)
}

// PhaseChangedSafe is the call site every controller transition uses: it
// tolerates a nil Notifier or nil callback.
func (n *Notifier) PhaseChangedSafe(from, to model.AgentPhase) {
	if n == nil || n.PhaseChanged == nil {
		return
	}
	n.PhaseChanged(from, to)
}

func (n *Notifier) TaskStartedSafe(taskID, description string) {
	if n == nil || n.TaskStarted == nil {
		return
	}
	n.TaskStarted(taskID, description)
}

func (n *Notifier) TaskCompleteSafe(taskID string, result model.ToolResult) {
	if n == nil || n.TaskComplete == nil {
		return
	}
	n.TaskComplete(taskID, result)
}

func (n *Notifier) ToolCallStartedSafe(taskID, toolName string) {
	if n == nil || n.ToolCallStarted == nil {
		return
	}
	n.ToolCallStarted(taskID, toolName)
}

func (n *Notifier) ToolResultSafe(taskID, toolName string, result model.ToolResult) {
	if n == nil || n.ToolResult == nil {
		return
	}
	n.ToolResult(taskID, toolName, result)
}

func (n *Notifier) ToolErrorSafe(taskID, toolName string, err error) {
	if n == nil || n.ToolError == nil {
		return
	}
	n.ToolError(taskID, toolName, err)
}

func (n *Notifier) ToolRetrySafe(taskID, toolName string, attempt int) {
	if n == nil || n.ToolRetry == nil {
		return
	}
	n.ToolRetry(taskID, toolName, attempt)
}

func (n *Notifier) QuorumStartedSafe(round, participants int) {
	if n == nil || n.QuorumStarted == nil {
		return
	}
	n.QuorumStarted(round, participants)
}

func (n *Notifier) QuorumModelCompleteSafe(round int, modelName string, approved bool) {
	if n == nil || n.QuorumModelComplete == nil {
		return
	}
	n.QuorumModelComplete(round, modelName, approved)
}

func (n *Notifier) QuorumCompleteWithVotesSafe(round int, result model.VoteResult) {
	if n == nil || n.QuorumCompleteWithVotes == nil {
		return
	}
	n.QuorumCompleteWithVotes(round, result)
}

func (n *Notifier) EnsembleStartedSafe(k int) {
	if n == nil || n.EnsembleStarted == nil {
		return
	}
	n.EnsembleStarted(k)
}

func (n *Notifier) EnsemblePlanGeneratedSafe(modelName string, plan model.Plan) {
	if n == nil || n.EnsemblePlanGenerated == nil {
		return
	}
	n.EnsemblePlanGenerated(modelName, plan)
}

func (n *Notifier) EnsembleVotingStartedSafe() {
	if n == nil || n.EnsembleVotingStarted == nil {
		return
	}
	n.EnsembleVotingStarted()
}

func (n *Notifier) EnsembleModelFailedSafe(modelName string, err error) {
	if n == nil || n.EnsembleModelFailed == nil {
		return
	}
	n.EnsembleModelFailed(modelName, err)
}

func (n *Notifier) EnsembleCompleteSafe(winnerModel string) {
	if n == nil || n.EnsembleComplete == nil {
		return
	}
	n.EnsembleComplete(winnerModel)
}

func (n *Notifier) EnsembleFallbackSafe(reason string) {
	if n == nil || n.EnsembleFallback == nil {
		return
	}
	n.EnsembleFallback(reason)
}

func (n *Notifier) PlanRevisionSafe(round int, feedback string) {
	if n == nil || n.PlanRevision == nil {
		return
	}
	n.PlanRevision(round, feedback)
}

func (n *Notifier) ActionRetrySafe(taskID string, attempt int, feedback string) {
	if n == nil || n.ActionRetry == nil {
		return
	}
	n.ActionRetry(taskID, attempt, feedback)
}

func (n *Notifier) HumanInterventionRequiredSafe(reason string) {
	if n == nil || n.HumanInterventionRequired == nil {
		return
	}
	n.HumanInterventionRequired(reason)
}

func (n *Notifier) ExecutionConfirmationRequiredSafe(taskID, toolName string) {
	if n == nil || n.ExecutionConfirmationRequired == nil {
		return
	}
	n.ExecutionConfirmationRequired(taskID, toolName)
}

func (n *Notifier) LLMStreamStartSafe(sessionLabel string) {
	if n == nil || n.LLMStreamStart == nil {
		return
	}
	n.LLMStreamStart(sessionLabel)
}

func (n *Notifier) LLMStreamChunkSafe(sessionLabel, chunk string) {
	if n == nil || n.LLMStreamChunk == nil {
		return
	}
	n.LLMStreamChunk(sessionLabel, chunk)
}

func (n *Notifier) LLMStreamEndSafe(sessionLabel string) {
	if n == nil || n.LLMStreamEnd == nil {
		return
	}
	n.LLMStreamEnd(sessionLabel)
}
