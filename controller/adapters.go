package controller

import (
	"context"

	"github.com/quorumforge/orchestrator/llmgateway"
)

// sessionReviewer adapts an llmgateway.Session to quorum.Reviewer, used
// for plan review, per-action review, and final review participants.
type sessionReviewer struct {
	session llmgateway.Session
}

func (s sessionReviewer) Review(ctx context.Context, prompt string) (string, error) {
	return s.session.Send(ctx, prompt)
}

// sessionPlanner adapts an llmgateway.Session to ensemble.Planner.
type sessionPlanner struct {
	name    string
	session llmgateway.Session
}

func (s sessionPlanner) Name() string { return s.name }

func (s sessionPlanner) Propose(ctx context.Context, prompt string) (string, error) {
	return s.session.Send(ctx, prompt)
}

func (s sessionPlanner) Score(ctx context.Context, prompt string) (string, error) {
	return s.session.Send(ctx, prompt)
}
