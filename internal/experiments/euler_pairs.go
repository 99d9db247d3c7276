package experiments

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/blackroad/qlab/pkg/constants"
	"github.com/blackroad/qlab/pkg/entangle"
)

// EulerPairs runs the dimensional pairs from the generalized Euler identity
// study through entanglement entropy before and after a φ-correction.
type EulerPairs struct{}

// NewEulerPairs creates the Euler pairs experiment.
func NewEulerPairs() *EulerPairs {
	return &EulerPairs{}
}

// Name returns the experiment identifier.
func (e *EulerPairs) Name() string { return "euler_pairs" }

// Description returns a one-line summary.
func (e *EulerPairs) Description() string {
	return "(2,3), (3,2), (5,3) pairs, entropy before and after φ-correction"
}

// Run executes the experiment.
func (e *EulerPairs) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	pairs := []struct {
		d1, d2   int
		expected string
	}{
		{2, 3, "√2"},
		{3, 2, "ζ(3)"},
		{5, 3, "φ, √3"},
	}

	type outcome struct {
		Dimensions       [2]int  `json:"dimensions"`
		ExpectedConstant string  `json:"expected_constant"`
		EntropyBefore    float64 `json:"entropy_before"`
		EntropyAfter     float64 `json:"entropy_after"`
	}

	phi, _ := constants.Lookup("φ")
	results := make([]outcome, 0, len(pairs))

	for _, p := range pairs {
		pair, err := entangle.NewMaximallyEntangled(p.d1, p.d2)
		if err != nil {
			return nil, fmt.Errorf("failed to create (%d,%d) pair: %w", p.d1, p.d2, err)
		}
		before, err := pair.Entropy()
		if err != nil {
			return nil, fmt.Errorf("failed to compute entropy: %w", err)
		}
		if err := pair.ApplyConstantPhase(phi.Value); err != nil {
			return nil, fmt.Errorf("failed to apply φ-correction: %w", err)
		}
		after, err := pair.Entropy()
		if err != nil {
			return nil, fmt.Errorf("failed to compute entropy after correction: %w", err)
		}

		results = append(results, outcome{
			Dimensions:       [2]int{p.d1, p.d2},
			ExpectedConstant: p.expected,
			EntropyBefore:    before,
			EntropyAfter:     after,
		})
	}

	report.Metrics["pairs_tested"] = float64(len(results))
	report.Details["results"] = results

	return report.finish(), nil
}
