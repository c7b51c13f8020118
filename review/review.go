// Package review implements the Review Pipeline: plan review, per-action
// review, and final review, each a thin stage-specific wrapper around the
// Quorum Voter with a stage prompt and parser. Grounded on SPEC_FULL.md
// section 4.5.
package review

import (
	"context"
	"fmt"

	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/quorum"
	"github.com/quorumforge/orchestrator/toolexec"
)

// ErrSkipReview is returned by PerActionReview when no reviewer models are
// configured; the caller must treat this as "proceed without review", not
// as a rejection.
var ErrSkipReview = fmt.Errorf("review: no reviewer models configured, skipping")

// Pipeline wraps the reviewer set used for all three review stages.
type Pipeline struct {
	Reviewers []quorum.Reviewer
	Rule      quorum.Rule
}

// New constructs a Pipeline over a fixed reviewer set and quorum rule.
func New(reviewers []quorum.Reviewer, rule quorum.Rule) *Pipeline {
	return &Pipeline{Reviewers: reviewers, Rule: rule}
}

// PlanReview runs the plan-review stage. When requirePlanReview is false
// or no reviewers are configured, it auto-approves with an empty vote set.
func (p *Pipeline) PlanReview(ctx context.Context, requirePlanReview bool, request string, plan model.Plan) (model.VoteResult, error) {
	if !requirePlanReview || len(p.Reviewers) == 0 {
		return model.VoteResult{Passed: true}, nil
	}
	prompt := planReviewPrompt(request, plan)
	return quorum.Run(ctx, p.Reviewers, prompt, p.Rule)
}

// PerActionReview runs the per-action review stage for a single proposed
// tool call on a high-risk tool. Callers must not invoke this for low-risk
// tools; the caller classifies risk via the tool registry.
func (p *Pipeline) PerActionReview(ctx context.Context, taskDescription string, call model.ToolCall) (model.VoteResult, error) {
	if len(p.Reviewers) == 0 {
		return model.VoteResult{}, ErrSkipReview
	}
	prompt := actionReviewPrompt(taskDescription, call)
	return quorum.Run(ctx, p.Reviewers, prompt, p.Rule)
}

// FinalReview runs the advisory final-review stage. A non-nil error here
// only ever means reviewers could not be reached; the caller must not
// treat a false Passed as fatal — final review never retries execution.
func (p *Pipeline) FinalReview(ctx context.Context, request string, results []model.ToolResult) (passed bool, err error) {
	if len(p.Reviewers) == 0 {
		return true, nil
	}
	prompt := finalReviewPrompt(request, results)
	votes := make([]model.Vote, 0, len(p.Reviewers))
	for _, r := range p.Reviewers {
		raw, rerr := r.Review(ctx, prompt)
		if rerr != nil {
			votes = append(votes, model.Vote{Approved: false, Reasoning: rerr.Error()})
			continue
		}
		votes = append(votes, model.Vote{Approved: quorum.ParseFinalReviewResult(raw), Reasoning: raw})
	}
	// Final review passes if a majority of reviewers independently judged
	// SUCCESS; it is advisory regardless of outcome.
	approved := 0
	for _, v := range votes {
		if v.Approved {
			approved++
		}
	}
	return quorum.NewMajority().Passes(approved, len(votes)), nil
}

// IsHighRisk classifies a tool as requiring per-action review. Unknown
// tool names are treated as high-risk by default, a fail-safe choice.
func IsHighRisk(specs []toolexec.ToolSpec, toolName string) bool {
	for _, s := range specs {
		if s.Name == toolName {
			return s.Risk != toolexec.RiskLow
		}
	}
	return true
}

func planReviewPrompt(request string, plan model.Plan) string {
	return fmt.Sprintf(
		"Review this plan for the request %q.\nObjective: %s\nReasoning: %s\nTasks: %d\n\nRespond with APPROVE or REJECT and your reasoning.",
		request, plan.Objective, plan.Reasoning, len(plan.Tasks))
}

func actionReviewPrompt(taskDescription string, call model.ToolCall) string {
	return fmt.Sprintf(
		"Review this proposed tool call for task %q.\nTool: %s\nArguments: %s\n\nRespond with APPROVE or REJECT and your reasoning.",
		taskDescription, call.ToolName, string(call.Arguments))
}

func finalReviewPrompt(request string, results []model.ToolResult) string {
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	return fmt.Sprintf(
		"The request was %q. %d of %d tasks succeeded.\n\nRespond with SUCCESS, PARTIAL, or FAILURE and your reasoning.",
		request, succeeded, len(results))
}
