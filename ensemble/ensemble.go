// Package ensemble implements the Ensemble Planner: K parallel plan
// generations followed by cross-scoring, selecting the plan with the
// highest mean score (ties broken by generation order). Grounded on
// SPEC_FULL.md section 4.6.
package ensemble

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quorumforge/orchestrator/model"
	"github.com/quorumforge/orchestrator/planparser"
	"github.com/quorumforge/orchestrator/progress"
	"github.com/quorumforge/orchestrator/quorum"
)

// Planner is a single participant model's planning capability: given the
// planning prompt, it returns raw model text from which a plan may (or
// may not) be extracted.
type Planner interface {
	Propose(ctx context.Context, prompt string) (string, error)
	// Score asks this participant to rate a candidate plan (generated by a
	// different participant) and returns raw text from which
	// quorum.ParseVoteScore extracts a 1-10 score.
	Score(ctx context.Context, prompt string) (string, error)
	Name() string
}

type candidate struct {
	modelName string
	plan      model.Plan
	genIndex  int
}

// ErrAllParticipantsFailed is returned when every participant's response
// yielded no parseable plan, so the caller must fall back to solo
// planning via the decision model.
var ErrAllParticipantsFailed = fmt.Errorf("ensemble: every participant failed to produce a parseable plan")

// Generate runs the ensemble protocol: parallel plan generation, then
// cross-scoring, then selection. prompt is the shared planning prompt
// sent to every participant.
func Generate(ctx context.Context, participants []Planner, prompt string, notifier *progress.Notifier) (model.Plan, error) {
	notifier.EnsembleStartedSafe(len(participants))

	candidates, err := proposeAll(ctx, participants, prompt, notifier)
	if err != nil {
		return model.Plan{}, err
	}
	if len(candidates) == 0 {
		notifier.EnsembleFallbackSafe("all participants failed to produce a parseable plan")
		return model.Plan{}, ErrAllParticipantsFailed
	}
	if len(candidates) == 1 {
		notifier.EnsembleCompleteSafe(candidates[0].modelName)
		return candidates[0].plan, nil
	}

	notifier.EnsembleVotingStartedSafe()
	scores, err := crossScore(ctx, participants, candidates)
	if err != nil {
		return model.Plan{}, err
	}

	winner := selectWinner(candidates, scores)
	notifier.EnsembleCompleteSafe(winner.modelName)
	return winner.plan, nil
}

func proposeAll(ctx context.Context, participants []Planner, prompt string, notifier *progress.Notifier) ([]candidate, error) {
	results := make([]*candidate, len(participants))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range participants {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			raw, err := p.Propose(gctx, prompt)
			if err != nil {
				notifier.EnsembleModelFailedSafe(p.Name(), err)
				return nil
			}
			plan, perr := planparser.FromModelText(raw)
			if perr != nil {
				notifier.EnsembleModelFailedSafe(p.Name(), perr)
				return nil
			}
			notifier.EnsemblePlanGeneratedSafe(p.Name(), plan)
			results[i] = &candidate{modelName: p.Name(), plan: plan, genIndex: i}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []candidate
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// crossScore asks every participant to score every candidate plan not
// generated by that same participant, and returns the mean score per
// candidate index (aligned with candidates).
func crossScore(ctx context.Context, participants []Planner, candidates []candidate) ([]float64, error) {
	type scoreJob struct {
		candidateIdx int
		scorer       Planner
	}
	var jobs []scoreJob
	for ci, c := range candidates {
		for _, p := range participants {
			if p.Name() == c.modelName {
				continue
			}
			jobs = append(jobs, scoreJob{candidateIdx: ci, scorer: p})
		}
	}

	scoresByCandidate := make([][]float64, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			c := candidates[job.candidateIdx]
			raw, err := job.scorer.Score(gctx, scoringPrompt(c.plan))
			if err != nil {
				return nil
			}
			score := quorum.ParseVoteScore(raw)
			mu.Lock()
			scoresByCandidate[job.candidateIdx] = append(scoresByCandidate[job.candidateIdx], score)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	means := make([]float64, len(candidates))
	for i, scores := range scoresByCandidate {
		if len(scores) == 0 {
			means[i] = 0
			continue
		}
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		means[i] = sum / float64(len(scores))
	}
	return means, nil
}

func selectWinner(candidates []candidate, scores []float64) candidate {
	best := 0
	for i := 1; i < len(candidates); i++ {
		if scores[i] > scores[best] {
			best = i
		}
		// Equal scores: keep the earlier generation index (candidates is
		// already ordered by genIndex, so the first max found wins).
	}
	return candidates[best]
}

func scoringPrompt(plan model.Plan) string {
	return fmt.Sprintf(
		"Rate this plan's quality from 1 to 10.\nObjective: %s\nReasoning: %s\nTasks: %d\n\nRespond with a score, e.g. {\"score\": 7}.",
		plan.Objective, plan.Reasoning, len(plan.Tasks))
}
