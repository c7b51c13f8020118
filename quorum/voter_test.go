package quorum

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewer struct {
	response string
	err      error
}

func (f fakeReviewer) Review(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestRunAggregatesVotesAndPasses(t *testing.T) {
	reviewers := []Reviewer{
		fakeReviewer{response: "APPROVE, looks solid. {\"score\": 9}"},
		fakeReviewer{response: "APPROVE. 8/10"},
		fakeReviewer{response: "I cannot approve: missing tests."},
	}
	result, err := Run(context.Background(), reviewers, "review this plan", NewMajority())
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 2, result.ApproveCount)
	assert.Equal(t, 1, result.RejectCount)
	assert.Contains(t, result.AggregatedFeedback, "missing tests")
}

func TestRunFailingReviewerCountsAsReject(t *testing.T) {
	reviewers := []Reviewer{
		fakeReviewer{response: "APPROVE"},
		fakeReviewer{err: errors.New("gateway unavailable")},
	}
	result, err := Run(context.Background(), reviewers, "p", NewUnanimous())
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.RejectCount)
	assert.Contains(t, result.AggregatedFeedback, "gateway unavailable")
}

func TestRunRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reviewers := []Reviewer{fakeReviewer{response: "APPROVE"}}
	_, err := Run(ctx, reviewers, "p", NewMajority())
	assert.Error(t, err)
}
