package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/quorum"
	"github.com/quorumforge/orchestrator/toolexec"
)

type scriptedReviewer struct{ response string }

func (s scriptedReviewer) Review(ctx context.Context, prompt string) (string, error) {
	return s.response, nil
}

func TestPlanReviewAutoApprovesWhenNotRequired(t *testing.T) {
	p := New(nil, quorum.NewMajority())
	result, err := p.PlanReview(context.Background(), false, "req", model.Plan{})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Votes)
}

func TestPlanReviewAutoApprovesWhenNoReviewers(t *testing.T) {
	p := New(nil, quorum.NewMajority())
	result, err := p.PlanReview(context.Background(), true, "req", model.Plan{})
	require.NoError(t, err)
	assert.True(t, result.Passed)
}

func TestPlanReviewRunsQuorum(t *testing.T) {
	p := New([]quorum.Reviewer{
		scriptedReviewer{"APPROVE"},
		scriptedReviewer{"REJECT: too risky"},
	}, quorum.NewUnanimous())
	result, err := p.PlanReview(context.Background(), true, "req", model.Plan{Objective: "x"})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Contains(t, result.AggregatedFeedback, "too risky")
}

func TestPerActionReviewSkipsWithNoReviewers(t *testing.T) {
	p := New(nil, quorum.NewMajority())
	_, err := p.PerActionReview(context.Background(), "task", model.ToolCall{ToolName: "rm"})
	assert.ErrorIs(t, err, ErrSkipReview)
}

func TestFinalReviewParsesSuccessVerdict(t *testing.T) {
	p := New([]quorum.Reviewer{scriptedReviewer{"SUCCESS: all good"}}, quorum.NewMajority())
	passed, err := p.FinalReview(context.Background(), "req", []model.ToolResult{model.SuccessResult("ok", nil)})
	require.NoError(t, err)
	assert.True(t, passed)
}

func TestFinalReviewWithNoReviewersPasses(t *testing.T) {
	p := New(nil, quorum.NewMajority())
	passed, err := p.FinalReview(context.Background(), "req", nil)
	require.NoError(t, err)
	assert.True(t, passed)
}

func TestIsHighRiskUnknownToolDefaultsHigh(t *testing.T) {
	specs := []toolexec.ToolSpec{{Name: "search", Risk: toolexec.RiskLow}}
	assert.True(t, IsHighRisk(specs, "unknown_tool"))
	assert.False(t, IsHighRisk(specs, "search"))
}
