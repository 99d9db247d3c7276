package experiments

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/blackroad/qlab/pkg/constants"
	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/qudit"
)

// BasicQudit prepares a qutrit, puts it in superposition, applies a golden
// ratio phase and measures it.
type BasicQudit struct{}

// NewBasicQudit creates the basic qutrit experiment.
func NewBasicQudit() *BasicQudit {
	return &BasicQudit{}
}

// Name returns the experiment identifier.
func (e *BasicQudit) Name() string { return "basic_qudit" }

// Description returns a one-line summary.
func (e *BasicQudit) Description() string {
	return "Qutrit superposition, golden ratio phase, measurement"
}

// Run executes the experiment.
func (e *BasicQudit) Run(_ context.Context, rng *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	const dimension = 3

	state, err := qudit.New(dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to create qutrit: %w", err)
	}

	h, err := gates.Hadamard(dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to build Hadamard gate: %w", err)
	}
	if err := state.Apply(h); err != nil {
		return nil, fmt.Errorf("failed to apply Hadamard gate: %w", err)
	}

	phi, _ := constants.Lookup("φ")
	phase, err := gates.Phase(dimension, phi.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to build phase gate: %w", err)
	}
	if err := state.Apply(phase); err != nil {
		return nil, fmt.Errorf("failed to apply phase gate: %w", err)
	}

	entropy := state.Entropy()
	outcome := state.Measure(rng)

	report.Metrics["dimension"] = dimension
	report.Metrics["entropy_before_measure"] = entropy
	report.Metrics["result"] = float64(outcome)
	report.Details["constant_used"] = phi.Name

	return report.finish(), nil
}
