// Package runctx carries the identifiers that scope a single Agent
// Controller run: a globally unique RunID, the SessionID that groups
// related runs into one conversation, and an optional TurnID grouping
// events for display. Adapted from the three-identifier model in the
// teacher's run.Context, trimmed to what a single in-process run needs
// (no workflow-engine replay/attempt bookkeeping, since this engine has
// no cross-restart persistence).
package runctx

import "github.com/google/uuid"

// Context identifies one run of the Agent Controller.
type Context struct {
	// RunID uniquely identifies this execution.
	RunID string
	// SessionID groups related runs into one conversation.
	SessionID string
	// TurnID groups events for a single user interaction cycle; empty
	// when turn tracking is not active.
	TurnID string
}

// New constructs a Context for a fresh run within an existing session.
// TurnID may be empty.
func New(sessionID, turnID string) Context {
	return Context{RunID: uuid.NewString(), SessionID: sessionID, TurnID: turnID}
}

// NewSession generates a fresh SessionID for a new conversation.
func NewSession() string { return uuid.NewString() }
