// Package controller implements the Agent Controller: the top-level state
// machine that drives a run through context gathering, planning, plan
// review, execution confirmation, task execution, and final review.
// Grounded on SPEC_FULL.md section 4.8.
package controller

import (
	"context"
	"errors"

	"github.com/quorumforge/orchestrator/buffer"
	"github.com/quorumforge/orchestrator/hil"
	"github.com/quorumforge/orchestrator/internal/errs"
	"github.com/quorumforge/orchestrator/ledger"
	"github.com/quorumforge/orchestrator/llmgateway"
	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/planparser"
	"github.com/quorumforge/orchestrator/progress"
	"github.com/quorumforge/orchestrator/projectctx"
	"github.com/quorumforge/orchestrator/quorum"
	"github.com/quorumforge/orchestrator/review"
	"github.com/quorumforge/orchestrator/toolexec"
)

// Deps are the Agent Controller's injected collaborators. Every field is a
// small port interface; the controller depends only on these signatures,
// never on a concrete provider.
type Deps struct {
	Gateway  llmgateway.Gateway
	Executor toolexec.Executor
	Loader   projectctx.Loader
	Notifier *progress.Notifier
	// HilFor resolves the Human Intervention Gateway for a policy's
	// HilMode. The caller supplies an interactive implementation for
	// model.HilInteractive; hil.ForMode covers AutoReject/AutoApprove.
	HilFor func(model.HilMode) hil.Gateway
}

// Controller runs agent requests to completion against a fixed Deps set.
type Controller struct {
	deps Deps
}

// New constructs a Controller over deps.
func New(deps Deps) *Controller {
	return &Controller{deps: deps}
}

// run carries per-invocation state that would otherwise need threading
// through every stage method by hand.
type run struct {
	ctx      context.Context
	input    model.RunAgentInput
	rule     quorum.Rule
	reviewer *review.Pipeline
	hilGate  hil.Gateway
	buf      *buffer.TaskResultBuffer
	led      *ledger.Ledger
	state    model.AgentState
}

// RunAgent executes the full agent state machine for input and returns
// the accumulated AgentState even when the run fails, per the
// partial-progress-retained contract.
func (c *Controller) RunAgent(ctx context.Context, input model.RunAgentInput) (model.AgentResult, error) {
	if _, err := ValidatePolicy(input.Policy); err != nil {
		return model.AgentResult{}, err
	}

	rule, err := quorum.ParseRule(input.Policy.QuorumRule)
	if err != nil {
		rule = quorum.NewMajority()
	}
	if input.Policy.Strategy == model.StrategyDebate {
		return model.AgentResult{}, errs.StrategyUnavailable(string(model.StrategyDebate))
	}

	r := &run{
		ctx:   ctx,
		input: input,
		rule:  rule,
		buf:   buffer.New(buffer.DefaultContextBudget()),
		led:   ledger.New(),
		state: model.AgentState{TaskResults: make(map[string]model.ToolResult)},
	}
	r.hilGate = c.resolveHil(input.Policy.HilMode)

	return c.drive(r)
}

func (c *Controller) resolveHil(mode model.HilMode) hil.Gateway {
	if c.deps.HilFor != nil {
		if g := c.deps.HilFor(mode); g != nil {
			return g
		}
	}
	if g := hil.ForMode(mode); g != nil {
		return g
	}
	return hil.AutoReject{}
}

func (c *Controller) setPhase(r *run, phase model.AgentPhase) {
	prev := r.state.LastPhase
	r.state.LastPhase = phase
	c.deps.Notifier.PhaseChangedSafe(prev, phase)
}

func (c *Controller) drive(r *run) (model.AgentResult, error) {
	if err := r.ctx.Err(); err != nil {
		return c.fail(r, errs.Cancelled(err))
	}
	c.setPhase(r, model.PhaseContextGathering)
	projectContext := c.gatherContext(r)

	c.setPhase(r, model.PhasePlanning)
	plan, err := c.plan(r, projectContext)
	if err != nil {
		return c.fail(r, errs.PlanningFailed(err))
	}
	r.state.Plan = plan

	c.setPhase(r, model.PhasePlanReview)
	approvedPlan, decision, err := c.planReviewLoop(r, plan)
	if err != nil {
		return c.fail(r, err)
	}
	if decision == model.HumanReject {
		return c.fail(r, errs.PlanningFailed(errors.New("plan rejected by human intervention")))
	}
	r.state.Plan = approvedPlan

	if r.input.Policy.PhaseScope == model.PhaseScopeFull {
		confirmation, cerr := r.hilGate.RequestExecutionConfirmation(r.ctx, r.input.Request, approvedPlan)
		if cerr != nil {
			return c.fail(r, errs.TaskExecutionFailed(cerr))
		}
		if confirmation.Kind == model.HumanReject {
			return c.fail(r, errs.TaskExecutionFailed(errors.New("execution rejected at confirmation")))
		}
	}

	if r.input.Policy.PhaseScope == model.PhaseScopePlanOnly {
		c.setPhase(r, model.PhaseCompleted)
		return model.AgentResult{FinalState: r.state, Success: true, Summary: "plan-only run completed"}, nil
	}

	c.setPhase(r, model.PhaseExecuting)
	if err := c.executeTasks(r); err != nil {
		return c.fail(r, errs.TaskExecutionFailed(err))
	}

	c.setPhase(r, model.PhaseFinalReview)
	c.finalReview(r)

	c.setPhase(r, model.PhaseCompleted)
	return model.AgentResult{FinalState: r.state, Success: true, Summary: "run completed"}, nil
}

func (c *Controller) fail(r *run, err error) (model.AgentResult, error) {
	c.setPhase(r, model.PhaseFailed)
	return model.AgentResult{FinalState: r.state, Success: false, Summary: err.Error()}, err
}

func (c *Controller) gatherContext(r *run) projectctx.ProjectContext {
	if r.ctx.Err() != nil || c.deps.Loader == nil || r.input.Execution.WorkingDir == "" {
		return projectctx.ProjectContext{}
	}
	files, err := c.deps.Loader.LoadKnownFiles(r.ctx, r.input.Execution.WorkingDir)
	if err != nil || len(files) == 0 {
		// Stage-local failure: fall through to minimal context rather than
		// surfacing ContextGatheringFailed, per the three-stage fallback.
		return projectctx.ProjectContext{}
	}
	return c.deps.Loader.BuildProjectContext(files)
}

func (c *Controller) finalReview(r *run) {
	reviewers := c.reviewSessions(r, r.input.Models.Review)
	if len(reviewers) == 0 {
		return
	}
	pipeline := review.New(reviewers, r.rule)
	results := make([]model.ToolResult, 0, len(r.state.TaskResults))
	for _, tr := range r.state.TaskResults {
		results = append(results, tr)
	}
	_, _ = pipeline.FinalReview(r.ctx, r.input.Request, results)
}

func (c *Controller) reviewSessions(r *run, models []string) []quorum.Reviewer {
	if c.deps.Gateway == nil {
		return nil
	}
	var out []quorum.Reviewer
	for _, m := range models {
		sess, err := c.deps.Gateway.CreateSession(r.ctx, llmgateway.Model(m))
		if err != nil {
			continue
		}
		out = append(out, sessionReviewer{session: sess})
	}
	return out
}

func (c *Controller) plan(r *run, pc projectctx.ProjectContext) (model.Plan, error) {
	switch r.input.Policy.ConsensusLevel {
	case model.ConsensusEnsemble:
		return c.planEnsemble(r, pc)
	default:
		return c.planSolo(r, pc)
	}
}

func (c *Controller) planSolo(r *run, pc projectctx.ProjectContext) (model.Plan, error) {
	sess, err := c.deps.Gateway.CreateSession(r.ctx, llmgateway.Model(r.input.Models.Decision))
	if err != nil {
		return model.Plan{}, err
	}
	prompt := planningPrompt(r.input.Request, pc)
	raw, err := sess.Send(r.ctx, prompt)
	if err != nil {
		return model.Plan{}, err
	}
	plan, err := planparser.FromModelText(raw)
	if err == nil {
		return plan, nil
	}
	// One retry with an explicit schema reminder on parse failure.
	raw, err = sess.Send(r.ctx, prompt+"\n\nRespond with valid JSON matching the plan schema exactly.")
	if err != nil {
		return model.Plan{}, err
	}
	return planparser.FromModelText(raw)
}

func planningPrompt(request string, pc projectctx.ProjectContext) string {
	if pc.Rendered == "" {
		return "Produce a plan for: " + request
	}
	return "Project context:\n" + pc.Rendered + "\n\nProduce a plan for: " + request
}
