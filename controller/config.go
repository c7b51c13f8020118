package controller

import (
	"fmt"

	"github.com/quorumforge/orchestrator/model"
)

// ErrInvalidConfiguration is returned by ValidatePolicy for hard-error
// configuration combinations.
type ErrInvalidConfiguration struct{ Reason string }

func (e *ErrInvalidConfiguration) Error() string {
	return fmt.Sprintf("controller: invalid configuration: %s", e.Reason)
}

// ValidatePolicy checks policy for invalid configuration combinations. It
// returns a hard error for Solo+Debate, and a non-empty warnings slice
// (with a nil error) for Ensemble+Fast and Ensemble+Debate, which proceed
// with reduced review phases.
func ValidatePolicy(policy model.AgentPolicy) (warnings []string, err error) {
	if policy.ConsensusLevel == model.ConsensusSolo && policy.Strategy == model.StrategyDebate {
		return nil, &ErrInvalidConfiguration{Reason: "solo consensus with debate strategy is not supported"}
	}
	if policy.ConsensusLevel == model.ConsensusEnsemble && policy.PhaseScope == model.PhaseScopeFast {
		warnings = append(warnings, "ensemble consensus with fast phase scope: review phases are reduced")
	}
	if policy.ConsensusLevel == model.ConsensusEnsemble && policy.Strategy == model.StrategyDebate {
		warnings = append(warnings, "ensemble consensus with debate strategy: review phases are reduced")
	}
	return warnings, nil
}
