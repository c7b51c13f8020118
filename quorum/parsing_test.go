package quorum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseApproval(t *testing.T) {
	assert.True(t, ParseApproval("Looks good, I APPROVE this plan."))
	assert.False(t, ParseApproval("I do NOT APPROVE of this."))
	assert.False(t, ParseApproval("I cannot approve this change."))
	assert.False(t, ParseApproval("REJECT: missing error handling."))
	assert.False(t, ParseApproval("no verdict keyword here"))
}

func TestParseFinalReviewResult(t *testing.T) {
	assert.True(t, ParseFinalReviewResult("SUCCESS: all objectives met."))
	assert.False(t, ParseFinalReviewResult("PARTIAL SUCCESS: one task failed."))
	assert.False(t, ParseFinalReviewResult("FAILURE: nothing worked."))
	assert.False(t, ParseFinalReviewResult("no verdict here"))
}

func TestParseVoteScoreJSON(t *testing.T) {
	assert.Equal(t, 8.0, ParseVoteScore(`Looks fine. {"score": 8}`))
}

func TestParseVoteScoreFraction(t *testing.T) {
	assert.Equal(t, 7.5, ParseVoteScore("I'd rate this 7.5/10 overall."))
}

func TestParseVoteScoreBareNumber(t *testing.T) {
	assert.Equal(t, 9.0, ParseVoteScore("Confidence: 9 out of 10 scale"))
}

func TestParseVoteScoreFallback(t *testing.T) {
	assert.Equal(t, 5.0, ParseVoteScore("no numbers to be found"))
}

func TestParseVoteScoreClamps(t *testing.T) {
	assert.Equal(t, 10.0, ParseVoteScore(`{"score": 57}`))
	assert.Equal(t, 1.0, ParseVoteScore(`{"score": -3}`))
}
