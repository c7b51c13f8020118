package controller

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quorumforge/orchestrator/internal/errs"
	"github.com/quorumforge/orchestrator/llmgateway"
	"github.com/quorumforge/orchestrator/model"
)

// RunQuorum runs Discussion mode: every participant answers question
// independently and in parallel, each optionally critiques the others'
// answers, and a moderator synthesizes a final consensus from both.
func (c *Controller) RunQuorum(ctx context.Context, input model.RunQuorumInput) (model.QuorumResult, error) {
	if err := ctx.Err(); err != nil {
		return model.QuorumResult{}, errs.Cancelled(err)
	}

	responses, err := c.gatherResponses(ctx, input.Models.Participants, input.Question)
	if err != nil {
		return model.QuorumResult{}, err
	}

	var reviews []model.QuorumReviewNote
	if input.EnableReview {
		reviews, err = c.gatherReviews(ctx, input.Models.Participants, responses)
		if err != nil {
			return model.QuorumResult{}, err
		}
	}

	synthesis, err := c.synthesize(ctx, input.Models.Moderator, input.Question, responses, reviews)
	if err != nil {
		return model.QuorumResult{}, err
	}

	return model.QuorumResult{
		Question:     input.Question,
		Participants: input.Models.Participants,
		Responses:    responses,
		Reviews:      reviews,
		Synthesis:    synthesis,
	}, nil
}

func (c *Controller) gatherResponses(ctx context.Context, participants []string, question string) ([]model.QuorumResponse, error) {
	responses := make([]model.QuorumResponse, len(participants))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range participants {
		i, m := i, m
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sess, err := c.deps.Gateway.CreateSession(gctx, llmgateway.Model(m))
			if err != nil {
				responses[i] = model.QuorumResponse{Model: m, Success: false, Content: err.Error()}
				return nil
			}
			content, err := sess.Send(gctx, question)
			if err != nil {
				responses[i] = model.QuorumResponse{Model: m, Success: false, Content: err.Error()}
				return nil
			}
			responses[i] = model.QuorumResponse{Model: m, Success: true, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// gatherReviews asks each participant to critique every other participant's
// response, in parallel across all (reviewer, reviewed) pairs.
func (c *Controller) gatherReviews(ctx context.Context, participants []string, responses []model.QuorumResponse) ([]model.QuorumReviewNote, error) {
	type job struct {
		reviewer string
		reviewed model.QuorumResponse
	}
	var jobs []job
	for _, reviewer := range participants {
		for _, resp := range responses {
			if resp.Model == reviewer || !resp.Success {
				continue
			}
			jobs = append(jobs, job{reviewer: reviewer, reviewed: resp})
		}
	}

	notes := make([]model.QuorumReviewNote, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sess, err := c.deps.Gateway.CreateSession(gctx, llmgateway.Model(j.reviewer))
			if err != nil {
				notes[i] = model.QuorumReviewNote{Reviewer: j.reviewer, ReviewedID: j.reviewed.Model, Content: err.Error()}
				return nil
			}
			prompt := fmt.Sprintf("Critique this answer from %s:\n\n%s", j.reviewed.Model, j.reviewed.Content)
			content, err := sess.Send(gctx, prompt)
			if err != nil {
				notes[i] = model.QuorumReviewNote{Reviewer: j.reviewer, ReviewedID: j.reviewed.Model, Content: err.Error()}
				return nil
			}
			notes[i] = model.QuorumReviewNote{Reviewer: j.reviewer, ReviewedID: j.reviewed.Model, Content: content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Controller) synthesize(ctx context.Context, moderator, question string, responses []model.QuorumResponse, reviews []model.QuorumReviewNote) (model.QuorumSynthesis, error) {
	sess, err := c.deps.Gateway.CreateSession(ctx, llmgateway.Model(moderator))
	if err != nil {
		return model.QuorumSynthesis{}, err
	}
	content, err := sess.Send(ctx, synthesisPrompt(question, responses, reviews))
	if err != nil {
		return model.QuorumSynthesis{}, err
	}
	return model.QuorumSynthesis{Moderator: moderator, Content: content}, nil
}

func synthesisPrompt(question string, responses []model.QuorumResponse, reviews []model.QuorumReviewNote) string {
	prompt := fmt.Sprintf("Question: %s\n\nParticipant answers:\n", question)
	for _, r := range responses {
		prompt += fmt.Sprintf("- %s: %s\n", r.Model, r.Content)
	}
	if len(reviews) > 0 {
		prompt += "\nCross-review notes:\n"
		for _, n := range reviews {
			prompt += fmt.Sprintf("- %s on %s: %s\n", n.Reviewer, n.ReviewedID, n.Content)
		}
	}
	prompt += "\nSynthesize a single consensus answer, noting any unresolved disagreement."
	return prompt
}
