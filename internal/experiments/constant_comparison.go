package experiments

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/blackroad/qlab/pkg/constants"
	"github.com/blackroad/qlab/pkg/entangle"
)

// ConstantComparison applies each framework constant as a phase gate to a
// fresh (2,3) pair and ranks the constants by resulting entropy.
type ConstantComparison struct{}

// NewConstantComparison creates the constant comparison experiment.
func NewConstantComparison() *ConstantComparison {
	return &ConstantComparison{}
}

// Name returns the experiment identifier.
func (e *ConstantComparison) Name() string { return "constant_comparison" }

// Description returns a one-line summary.
func (e *ConstantComparison) Description() string {
	return "Every framework constant as a phase gate on a (2,3) pair"
}

// Run executes the experiment.
func (e *ConstantComparison) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	const d1, d2 = 2, 3

	type outcome struct {
		Constant string  `json:"constant"`
		Value    float64 `json:"value"`
		Entropy  float64 `json:"entropy"`
	}

	var (
		results []outcome
		best    outcome
	)

	for _, c := range constants.All() {
		pair, err := entangle.NewMaximallyEntangled(d1, d2)
		if err != nil {
			return nil, fmt.Errorf("failed to create entangled pair: %w", err)
		}
		if err := pair.ApplyConstantPhase(c.Value); err != nil {
			return nil, fmt.Errorf("failed to apply %s phase: %w", c.Name, err)
		}
		entropy, err := pair.Entropy()
		if err != nil {
			return nil, fmt.Errorf("failed to compute entropy for %s: %w", c.Name, err)
		}

		o := outcome{Constant: c.Name, Value: c.Value, Entropy: entropy}
		results = append(results, o)
		if len(results) == 1 || o.Entropy > best.Entropy {
			best = o
		}
	}

	report.Metrics["constants_tested"] = float64(len(results))
	report.Metrics["best_entropy"] = best.Entropy
	report.Details["results"] = results
	report.Details["best_constant"] = best.Constant

	return report.finish(), nil
}
