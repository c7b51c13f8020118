// Package hil implements the Human Intervention Gateway: the port the
// Agent Controller calls when automated review cannot converge on a plan,
// or before executing a fully-reviewed plan. Grounded on SPEC_FULL.md
// section 4.7.
package hil

import (
	"context"
	"errors"

	"github.com/quorumforge/orchestrator/model"
)

// Failure modes specific to human intervention, distinct from the
// engine's fatal ServiceError taxonomy since these are expected,
// recoverable outcomes of asking a human.
var (
	ErrCancelled    = errors.New("hil: intervention cancelled by user")
	ErrIO           = errors.New("hil: io error communicating with intervention channel")
	ErrInvalidInput = errors.New("hil: invalid input from intervention channel")
)

// Gateway surfaces decisions to a human.
type Gateway interface {
	RequestIntervention(ctx context.Context, request string, plan model.Plan, history []model.ReviewRound) (model.HumanDecision, error)
	RequestExecutionConfirmation(ctx context.Context, request string, plan model.Plan) (model.HumanDecision, error)
}

// AutoReject always rejects, for HilMode = AutoReject.
type AutoReject struct{}

func (AutoReject) RequestIntervention(context.Context, string, model.Plan, []model.ReviewRound) (model.HumanDecision, error) {
	return model.HumanDecision{Kind: model.HumanReject}, nil
}

func (AutoReject) RequestExecutionConfirmation(context.Context, string, model.Plan) (model.HumanDecision, error) {
	return model.HumanDecision{Kind: model.HumanReject}, nil
}

// AutoApprove always approves, for HilMode = AutoApprove. Per the
// execution-confirmation default for non-interactive modes, its
// confirmation path also approves.
type AutoApprove struct{}

func (AutoApprove) RequestIntervention(context.Context, string, model.Plan, []model.ReviewRound) (model.HumanDecision, error) {
	return model.HumanDecision{Kind: model.HumanApprove}, nil
}

func (AutoApprove) RequestExecutionConfirmation(context.Context, string, model.Plan) (model.HumanDecision, error) {
	return model.HumanDecision{Kind: model.HumanApprove}, nil
}

// ForMode selects the non-interactive Gateway for mode, or nil when mode
// is Interactive (the caller must supply a real interactive Gateway).
func ForMode(mode model.HilMode) Gateway {
	switch mode {
	case model.HilAutoReject:
		return AutoReject{}
	case model.HilAutoApprove:
		return AutoApprove{}
	default:
		return nil
	}
}
