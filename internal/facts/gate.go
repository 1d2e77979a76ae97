package facts

import (
	"fmt"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// GateConfig holds the sufficiency thresholds applied between the
// validation and writing stages.
type GateConfig struct {
	MinApprovedFacts int     // Hard stop: fewer approved facts aborts the run
	MinApprovalRate  float64 // Soft gate: lower rates continue with a warning
}

// DefaultGateConfig returns the reference thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MinApprovedFacts: 5,
		MinApprovalRate:  0.6,
	}
}

// Outcome is the result of a passing gate decision. Warnings are
// advisory: the orchestrator attaches them to the run envelope and
// continues. A failing gate returns an error instead, never an Outcome.
type Outcome struct {
	Validation *core.ValidationResult
	Warnings   []string
}

// Gate applies the sufficiency policy to a classifier-produced
// partition. The partition itself is treated as given input; the gate
// only computes the approval rate and decides between abort, continue,
// and continue-with-warning.
//
// Below MinApprovedFacts the gate fails hard with an
// InsufficientFactsError carrying the rejected facts with reasons. An
// approval rate below MinApprovalRate is a soft finding: the gate
// passes and reports it as a warning.
func Gate(validation *core.ValidationResult, cfg GateConfig) (*Outcome, error) {
	approved := len(validation.Approved)
	total := approved + len(validation.Rejected)

	rate := 0.0
	if total > 0 {
		rate = float64(approved) / float64(total)
	}
	validation.ApprovalRate = rate

	if approved < cfg.MinApprovedFacts {
		return nil, &core.InsufficientFactsError{
			ApprovedCount: approved,
			Required:      cfg.MinApprovedFacts,
			Rejected:      validation.Rejected,
		}
	}

	outcome := &Outcome{Validation: validation}
	if rate < cfg.MinApprovalRate {
		outcome.Warnings = append(outcome.Warnings, fmt.Sprintf(
			"low fact approval rate: %.0f%% of %d researched facts were approved (target: %.0f%%)",
			rate*100, total, cfg.MinApprovalRate*100))
	}

	return outcome, nil
}
