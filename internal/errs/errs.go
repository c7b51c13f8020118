// Package errs defines the engine's named error taxonomy. Every fatal
// error kind the Agent Controller can surface is a *goa.design/goa/v3/pkg
// ServiceError with a stable Name, so callers branch with errors.As and a
// Name comparison rather than string matching on Error().
package errs

import (
	"errors"
	"fmt"

	goa "goa.design/goa/v3/pkg"
)

// Name constants for the error kinds enumerated in the error handling
// design. Prompt templates and progress-notifier copy may reference these
// by string value; keep them in sync with any user-facing text.
const (
	NameCancelled              = "cancelled"
	NameContextGatheringFailed = "context_gathering_failed"
	NamePlanningFailed         = "planning_failed"
	NameQuorumFailed           = "quorum_failed"
	NameTaskExecutionFailed    = "task_execution_failed"
	NameStrategyUnavailable    = "strategy_unavailable"
)

// Cancelled wraps context.Canceled (or an equivalent cooperative
// cancellation signal) as a non-retryable, non-fault ServiceError.
func Cancelled(cause error) *goa.ServiceError {
	return goa.NewServiceError(cause, NameCancelled, false, false, false)
}

// ContextGatheringFailed marks a stage-local failure during ContextGathering.
// Callers are expected to catch this and fall through to minimal context
// rather than surface it to the end user.
func ContextGatheringFailed(format string, args ...any) *goa.ServiceError {
	return goa.NewServiceError(fmt.Errorf(format, args...), NameContextGatheringFailed, false, true, false)
}

// PlanningFailed marks an unrecoverable planning failure (Solo retry
// exhausted, or Ensemble fallback to solo also failed).
func PlanningFailed(cause error) *goa.ServiceError {
	return goa.NewServiceError(cause, NamePlanningFailed, false, true, false)
}

// QuorumFailed marks a quorum vote in which zero reviewers returned a
// result. Retryable at the use-case layer (the caller may re-run the vote)
// but never silently treated as approval.
func QuorumFailed(cause error) *goa.ServiceError {
	return goa.NewServiceError(cause, NameQuorumFailed, false, true, false)
}

// TaskExecutionFailed marks an unrecoverable failure while executing a
// task's tool calls. Completed tasks remain in the agent state.
func TaskExecutionFailed(cause error) *goa.ServiceError {
	return goa.NewServiceError(cause, NameTaskExecutionFailed, false, true, false)
}

// StrategyUnavailable marks dispatch of a declared-but-unimplemented
// Strategy (Debate). See SPEC_FULL.md's Open Questions: fail loud at
// dispatch rather than silently degrading to Quorum.
func StrategyUnavailable(strategy string) *goa.ServiceError {
	return goa.NewServiceError(fmt.Errorf("strategy %q is not available", strategy), NameStrategyUnavailable, false, false, false)
}

// Is reports whether err is a ServiceError with the given Name.
func Is(err error, name string) bool {
	var svcErr *goa.ServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	return svcErr.Name == name
}
