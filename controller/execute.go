package controller

import (
	"errors"
	"fmt"

	"github.com/quorumforge/orchestrator/llmgateway"
	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/review"
	"github.com/quorumforge/orchestrator/toolexec"
)

// maxRetryableToolAttempts bounds retries for INVALID_ARGUMENT/NOT_FOUND
// tool failures: the original arguments are resent unchanged so the model
// sees the error and self-corrects on its next turn.
const maxRetryableToolAttempts = 2

func (c *Controller) executeTasks(r *run) error {
	ordered, err := topoSort(r.state.Plan.Tasks)
	if err != nil {
		return err
	}

	specs := c.deps.Executor.ToolSpecs()
	gatewaySpecs := toGatewaySpecs(specs)

	for _, task := range ordered {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if err := c.executeTask(r, task, specs, gatewaySpecs); err != nil {
			return fmt.Errorf("task %q: %w", task.ID, err)
		}
	}
	return nil
}

func toGatewaySpecs(specs []toolexec.ToolSpec) []llmgateway.ToolSpec {
	out := make([]llmgateway.ToolSpec, len(specs))
	for i, s := range specs {
		out[i] = llmgateway.ToolSpec{Name: s.Name, Description: s.Description, Schema: s.Schema}
	}
	return out
}

// executeTask drives a single task's native-tool-use loop: ask the
// decision model for the next tool call(s) given accumulated context,
// execute each in order (subject to per-action review for high-risk
// tools), and continue until the model stops requesting tools or the
// task's tool-turn budget is exhausted.
func (c *Controller) executeTask(r *run, task model.Task, specs []toolexec.ToolSpec, gatewaySpecs []llmgateway.ToolSpec) error {
	c.deps.Notifier.TaskStartedSafe(task.ID, task.Description)

	sess, err := c.deps.Gateway.CreateSession(r.ctx, llmgateway.Model(r.input.Models.Decision))
	if err != nil {
		return err
	}

	prompt := taskPrompt(task, r.buf.Render())
	resp, err := sess.SendWithTools(r.ctx, prompt, gatewaySpecs)
	if err != nil {
		return err
	}

	maxTurns := r.input.Execution.EffectiveMaxToolTurns()
	var lastOutput string
	for turn := 0; turn < maxTurns && len(resp.ToolCalls) > 0; turn++ {
		if err := r.ctx.Err(); err != nil {
			return err
		}

		var results []llmgateway.ToolResultMessage
		for _, call := range resp.ToolCalls {
			out, isErr, perr := c.executeOneCall(r, task, call, specs)
			if perr != nil {
				return perr
			}
			lastOutput = out
			if call.NativeID == "" {
				// Missing correlation id: log-and-drop, never guessed.
				continue
			}
			results = append(results, llmgateway.ToolResultMessage{NativeID: call.NativeID, Content: out, IsError: isErr})
		}

		resp, err = sess.SendToolResults(r.ctx, results)
		if err != nil {
			return err
		}
	}

	finalOutput := resp.Text
	if finalOutput == "" {
		finalOutput = lastOutput
	}
	r.buf.Push(task.ID, finalOutput)
	r.state.TaskResults[task.ID] = model.SuccessResult(finalOutput, nil)
	c.deps.Notifier.TaskCompleteSafe(task.ID, r.state.TaskResults[task.ID])
	return nil
}

// executeOneCall runs one requested tool call, applying per-action review
// (a rejected call is not executed; the rejection is returned to the model
// as an error tool result, and any alternative call arrives on the model's
// next turn — there is no per-task action-retry counter beyond the task's
// tool-turn limit), the ledger lifecycle, and the retryable-error-code
// policy. It returns the tool's rendered
// output (for the model's next turn) and whether that output is an error.
func (c *Controller) executeOneCall(r *run, task model.Task, call llmgateway.ToolCallRequest, specs []toolexec.ToolSpec) (output string, isError bool, err error) {
	toolCall := model.ToolCall{ToolName: call.ToolName, Arguments: call.Arguments, NativeID: call.NativeID}

	if r.input.Policy.PhaseScope.IncludesActionReview() && review.IsHighRisk(specs, call.ToolName) && r.reviewer != nil {
		approved, rerr := c.runActionReview(r, task, toolCall)
		if rerr != nil {
			return "", false, rerr
		}
		if !approved {
			c.deps.Notifier.ActionRetrySafe(task.ID, 1, "action rejected by reviewers")
			return fmt.Sprintf("tool call to %q was rejected by review and not executed", call.ToolName), true, nil
		}
	}

	c.deps.Notifier.ToolCallStartedSafe(task.ID, call.ToolName)
	if call.NativeID != "" {
		r.led.Record(task.ID, call.ToolName, call.NativeID, string(call.Arguments))
		r.led.Dispatch(call.NativeID)
	}

	if spec, ok := toolexec.FindSpec(specs, call.ToolName); ok {
		if verr := toolexec.ValidateArguments(spec, call.Arguments); verr != nil {
			if call.NativeID != "" {
				r.led.Fail(call.NativeID, verr.Error())
			}
			c.deps.Notifier.ToolErrorSafe(task.ID, call.ToolName, verr)
			return verr.Error(), true, nil
		}
	}

	result, execErr := c.runWithRetry(r, toolCall)
	if execErr != nil {
		if call.NativeID != "" {
			r.led.Fail(call.NativeID, execErr.Error())
		}
		c.deps.Notifier.ToolErrorSafe(task.ID, call.ToolName, execErr)
		return execErr.Error(), true, nil
	}

	if result.Success {
		if call.NativeID != "" {
			r.led.Complete(call.NativeID, result.Output)
		}
		c.deps.Notifier.ToolResultSafe(task.ID, call.ToolName, result)
		return result.Output, false, nil
	}

	if call.NativeID != "" {
		r.led.Fail(call.NativeID, result.Message)
	}
	c.deps.Notifier.ToolResultSafe(task.ID, call.ToolName, result)
	return result.Message, true, nil
}

func (c *Controller) runActionReview(r *run, task model.Task, call model.ToolCall) (bool, error) {
	result, err := r.reviewer.PerActionReview(r.ctx, task.Description, call)
	if errors.Is(err, review.ErrSkipReview) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return result.Passed, nil
}

// runWithRetry executes call, retrying up to maxRetryableToolAttempts
// total attempts when the result's error code is retryable, resending the
// original arguments unchanged.
func (c *Controller) runWithRetry(r *run, call model.ToolCall) (model.ToolResult, error) {
	var result model.ToolResult
	for attempt := 1; attempt <= maxRetryableToolAttempts; attempt++ {
		res, err := c.deps.Executor.Execute(r.ctx, call)
		if err != nil {
			return model.ToolResult{}, err
		}
		result = res
		if result.Success || !result.ErrorCode.Retryable() {
			return result, nil
		}
		c.deps.Notifier.ToolRetrySafe("", call.ToolName, attempt)
	}
	return result, nil
}

func taskPrompt(task model.Task, bufferRender string) string {
	if bufferRender == "" {
		return "Complete this task: " + task.Description
	}
	return bufferRender + "\n\nComplete this task: " + task.Description
}
