package experiments

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/blackroad/qlab/pkg/constants"
	"github.com/blackroad/qlab/pkg/entangle"
)

// EntangledPair measures the entanglement entropy of a maximally entangled
// (3,5) pair before and after a golden ratio phase gate. Diagonal phases
// leave the reduced spectrum unchanged, so the two entropies agree.
type EntangledPair struct{}

// NewEntangledPair creates the entangled pair experiment.
func NewEntangledPair() *EntangledPair {
	return &EntangledPair{}
}

// Name returns the experiment identifier.
func (e *EntangledPair) Name() string { return "entangled_pair" }

// Description returns a one-line summary.
func (e *EntangledPair) Description() string {
	return "Maximally entangled (3,5) pair, entropy before and after a φ-gate"
}

// Run executes the experiment.
func (e *EntangledPair) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	const d1, d2 = 3, 5

	pair, err := entangle.NewMaximallyEntangled(d1, d2)
	if err != nil {
		return nil, fmt.Errorf("failed to create entangled pair: %w", err)
	}

	before, err := pair.Entropy()
	if err != nil {
		return nil, fmt.Errorf("failed to compute entropy: %w", err)
	}

	phi, _ := constants.Lookup("φ")
	if err := pair.ApplyConstantPhase(phi.Value); err != nil {
		return nil, fmt.Errorf("failed to apply constant phase: %w", err)
	}

	after, err := pair.Entropy()
	if err != nil {
		return nil, fmt.Errorf("failed to compute entropy after phase: %w", err)
	}

	report.Metrics["d1"] = d1
	report.Metrics["d2"] = d2
	report.Metrics["entropy_before"] = before
	report.Metrics["entropy_after"] = after
	report.Metrics["entropy_change"] = math.Abs(after - before)
	report.Metrics["max_entropy"] = pair.MaxEntropy()
	report.Details["constant_used"] = phi.Name

	return report.finish(), nil
}
