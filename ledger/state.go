// Package ledger implements the Tool-Execution Ledger: a record of every
// tool call issued within a run, its native provider id, and its lifecycle
// state. Illegal transitions are no-ops rather than errors, matching the
// pattern-matched state machine in domain/src/agent/tool_execution.rs.
package ledger

import "strings"

// State is a tool execution's lifecycle state.
type State int

const (
	// Pending means the call has been recorded but not yet dispatched.
	Pending State = iota
	// Running means the call has been dispatched to the Tool Executor port.
	Running
	// Completed means the call returned a successful result.
	Completed
	// Error means the call returned a failed result or could not be dispatched.
	Error
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ParseState normalizes s to a State. It returns Pending, false when s is
// not recognized.
func ParseState(s string) (State, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return Pending, true
	case "running":
		return Running, true
	case "completed":
		return Completed, true
	case "error":
		return Error, true
	default:
		return Pending, false
	}
}

// Terminal reports whether s is Completed or Error.
func (s State) Terminal() bool {
	return s == Completed || s == Error
}

// next computes the state reached by applying event from s. The second
// return value is false when the transition is illegal, in which case the
// caller must leave the state unchanged rather than apply the zero value.
func next(s State, ev event) (State, bool) {
	switch s {
	case Pending:
		if ev == evDispatch {
			return Running, true
		}
	case Running:
		switch ev {
		case evSucceed:
			return Completed, true
		case evFail:
			return Error, true
		}
	case Completed, Error:
		// Terminal: every event is a no-op.
	}
	return s, false
}

type event int

const (
	evDispatch event = iota
	evSucceed
	evFail
)
