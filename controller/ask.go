package controller

import (
	"context"

	"github.com/quorumforge/orchestrator/internal/errs"
	"github.com/quorumforge/orchestrator/llmgateway"
	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/toolexec"
)

// RunAsk runs the lightweight Q&A path: a single session, restricted to
// low-risk tools, with no planning and no review. It has no ledger and no
// retry policy — it is intentionally the simplest path through the engine.
func (c *Controller) RunAsk(ctx context.Context, input model.RunAskInput) (model.AskResult, error) {
	if err := ctx.Err(); err != nil {
		return model.AskResult{}, errs.Cancelled(err)
	}

	sess, err := c.deps.Gateway.CreateSession(ctx, llmgateway.Model(input.Models.Ask))
	if err != nil {
		return model.AskResult{}, err
	}

	lowRisk := lowRiskSpecs(c.deps.Executor)
	tools := toGatewaySpecs(lowRisk)

	resp, err := sess.SendWithTools(ctx, input.Query, tools)
	if err != nil {
		return model.AskResult{}, err
	}

	maxTurns := input.Execution.EffectiveMaxToolTurns()
	for turn := 0; turn < maxTurns && len(resp.ToolCalls) > 0; turn++ {
		if err := ctx.Err(); err != nil {
			return model.AskResult{}, errs.Cancelled(err)
		}
		var results []llmgateway.ToolResultMessage
		for _, call := range resp.ToolCalls {
			toolCall := model.ToolCall{ToolName: call.ToolName, Arguments: call.Arguments, NativeID: call.NativeID}
			out, isErr := c.executeLowRisk(ctx, toolCall, lowRisk)
			if call.NativeID == "" {
				continue
			}
			results = append(results, llmgateway.ToolResultMessage{NativeID: call.NativeID, Content: out, IsError: isErr})
		}
		resp, err = sess.SendToolResults(ctx, results)
		if err != nil {
			return model.AskResult{}, err
		}
	}

	return model.AskResult{Answer: resp.Text}, nil
}

func (c *Controller) executeLowRisk(ctx context.Context, call model.ToolCall, specs []toolexec.ToolSpec) (output string, isError bool) {
	spec, ok := toolexec.FindSpec(specs, call.ToolName)
	if !ok {
		return "tool " + call.ToolName + " is not available on the ask path", true
	}
	if verr := toolexec.ValidateArguments(spec, call.Arguments); verr != nil {
		return verr.Error(), true
	}
	result, err := c.deps.Executor.Execute(ctx, call)
	if err != nil {
		return err.Error(), true
	}
	if result.Success {
		return result.Output, false
	}
	return result.Message, true
}

// lowRiskSpecs filters an executor's catalogue down to tools safe to expose
// to the Ask path, which never runs per-action review.
func lowRiskSpecs(executor toolexec.Executor) []toolexec.ToolSpec {
	if executor == nil {
		return nil
	}
	all := executor.ToolSpecs()
	out := make([]toolexec.ToolSpec, 0, len(all))
	for _, s := range all {
		if s.Risk == toolexec.RiskLow {
			out = append(out, s)
		}
	}
	return out
}
