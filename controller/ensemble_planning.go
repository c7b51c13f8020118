package controller

import (
	"errors"

	"github.com/quorumforge/orchestrator/ensemble"
	"github.com/quorumforge/orchestrator/llmgateway"
	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/projectctx"
)

func (c *Controller) planEnsemble(r *run, pc projectctx.ProjectContext) (model.Plan, error) {
	participants := make([]ensemble.Planner, 0, len(r.input.Models.Participants))
	for _, m := range r.input.Models.Participants {
		sess, err := c.deps.Gateway.CreateSession(r.ctx, llmgateway.Model(m))
		if err != nil {
			c.deps.Notifier.EnsembleModelFailedSafe(m, err)
			continue
		}
		participants = append(participants, sessionPlanner{name: m, session: sess})
	}

	prompt := planningPrompt(r.input.Request, pc)
	plan, err := ensemble.Generate(r.ctx, participants, prompt, c.deps.Notifier)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, ensemble.ErrAllParticipantsFailed) {
		return model.Plan{}, err
	}

	// All participants failed: fall back to solo planning with the
	// decision model, per the ensemble-fallback contract.
	return c.planSolo(r, pc)
}
