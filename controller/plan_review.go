package controller

import (
	"fmt"

	"github.com/quorumforge/orchestrator/internal/errs"
	"github.com/quorumforge/orchestrator/llmgateway"
	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/planparser"
	"github.com/quorumforge/orchestrator/review"
)

// planReviewLoop runs the plan-review stage, revising with the decision
// model on rejection up to the policy's revision limit, then escalating
// to the Human Intervention Gateway when the limit is exceeded.
func (c *Controller) planReviewLoop(r *run, plan model.Plan) (model.Plan, model.HumanDecisionKind, error) {
	reviewers := c.reviewSessions(r, r.input.Models.Review)
	pipeline := review.New(reviewers, r.rule)
	r.reviewer = pipeline

	limit := r.input.Policy.EffectiveMaxPlanRevisions()
	current := plan

	for round := 1; round <= limit; round++ {
		if err := r.ctx.Err(); err != nil {
			return model.Plan{}, "", errs.Cancelled(err)
		}

		requireReview := r.input.Policy.RequirePlanReview && r.input.Policy.PhaseScope.IncludesPlanReview()
		result, err := pipeline.PlanReview(r.ctx, requireReview, r.input.Request, current)
		if err != nil {
			if cerr := r.ctx.Err(); cerr != nil {
				return model.Plan{}, "", errs.Cancelled(cerr)
			}
			return model.Plan{}, "", errs.QuorumFailed(err)
		}
		r.state.ReviewRounds = append(r.state.ReviewRounds, model.ReviewRound{
			Round: round, Approved: result.Passed, Votes: result.Votes, Feedback: result.AggregatedFeedback,
		})
		if result.Passed {
			return current, model.HumanApprove, nil
		}

		c.deps.Notifier.PlanRevisionSafe(round, result.AggregatedFeedback)
		revised, rerr := c.reviseplan(r, current, result.AggregatedFeedback)
		if rerr != nil {
			// Revision call itself failed: keep the previous plan and let
			// the loop re-review it, consuming a round.
			continue
		}
		current = revised
	}

	return c.escalateToHuman(r, current)
}

func (c *Controller) escalateToHuman(r *run, plan model.Plan) (model.Plan, model.HumanDecisionKind, error) {
	switch r.input.Policy.HilMode {
	case model.HilInteractive:
		decision, err := r.hilGate.RequestIntervention(r.ctx, r.input.Request, plan, r.state.ReviewRounds)
		if err != nil {
			return model.Plan{}, "", errs.PlanningFailed(err)
		}
		c.deps.Notifier.HumanInterventionRequiredSafe("plan revision limit exceeded")
		switch decision.Kind {
		case model.HumanApprove:
			return plan, model.HumanApprove, nil
		case model.HumanEdit:
			if decision.EditedPlan != nil {
				return *decision.EditedPlan, model.HumanApprove, nil
			}
			return plan, model.HumanApprove, nil
		default:
			return model.Plan{}, model.HumanReject, nil
		}
	case model.HilAutoApprove:
		return plan, model.HumanApprove, nil
	default: // AutoReject
		_, _ = r.hilGate.RequestIntervention(r.ctx, r.input.Request, plan, r.state.ReviewRounds)
		return model.Plan{}, model.HumanReject, nil
	}
}

func (c *Controller) reviseplan(r *run, plan model.Plan, feedback string) (model.Plan, error) {
	sess, err := c.deps.Gateway.CreateSession(r.ctx, llmgateway.Model(r.input.Models.Decision))
	if err != nil {
		return model.Plan{}, err
	}
	prompt := fmt.Sprintf(
		"Your plan was rejected. Feedback:\n%s\n\nOriginal objective: %s\n\nProvide a revised plan addressing the feedback.",
		feedback, plan.Objective)
	raw, err := sess.Send(r.ctx, prompt)
	if err != nil {
		return model.Plan{}, err
	}
	return planparser.FromModelText(raw)
}
