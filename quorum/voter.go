package quorum

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/quorumforge/orchestrator/model"
)

// Reviewer is a single participant in a quorum vote: given a prompt, it
// returns the reviewer's raw response text. Implementations wrap an
// llmgateway.Gateway session bound to a specific model.
type Reviewer interface {
	Review(ctx context.Context, prompt string) (string, error)
}

// Run fans reviewers out in parallel, each evaluating prompt, and
// aggregates their parsed votes against rule. It honors ctx cancellation:
// once ctx is done, in-flight reviewers are abandoned and Run returns the
// ctx error rather than a partial VoteResult, per the controller's
// Cancelled-never-partial-Success contract.
//
// A reviewer that errors contributes a rejecting vote with its error as
// the reasoning, rather than aborting the whole round — a single flaky
// participant should not veto quorum progress silently, but its dissent is
// recorded and visible in AggregateRejectionFeedback.
func Run(ctx context.Context, reviewers []Reviewer, prompt string, rule Rule) (model.VoteResult, error) {
	votes := make([]model.Vote, len(reviewers))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range reviewers {
		i, r := i, r
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			raw, err := r.Review(gctx, prompt)
			if err != nil {
				votes[i] = model.Vote{Approved: false, Reasoning: err.Error()}
				return nil
			}
			score := ParseVoteScore(raw)
			votes[i] = model.Vote{
				Approved:   ParseApproval(raw),
				Reasoning:  raw,
				Confidence: &score,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.VoteResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.VoteResult{}, err
	}

	return Tally(votes, rule), nil
}

// Tally aggregates votes against rule into a VoteResult. Exposed
// separately from Run so callers that already hold votes (e.g. from a
// cached ensemble round) can reuse the same aggregation logic.
func Tally(votes []model.Vote, rule Rule) model.VoteResult {
	approve, reject := 0, 0
	for _, v := range votes {
		if v.Approved {
			approve++
		} else {
			reject++
		}
	}
	result := model.VoteResult{
		Passed:       rule.Passes(approve, len(votes)),
		ApproveCount: approve,
		RejectCount:  reject,
		TotalVotes:   len(votes),
		Votes:        votes,
	}
	result.AggregatedFeedback = result.AggregateRejectionFeedback()
	return result
}
