package experiments

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/qudit"
)

// PrimeQudits sweeps prime dimensions d = 5..23, applying Hadamard then QFT
// and comparing the resulting measurement entropy against the ln(d) maximum.
type PrimeQudits struct{}

// NewPrimeQudits creates the prime dimension sweep experiment.
func NewPrimeQudits() *PrimeQudits {
	return &PrimeQudits{}
}

// Name returns the experiment identifier.
func (e *PrimeQudits) Name() string { return "prime_qudits" }

// Description returns a one-line summary.
func (e *PrimeQudits) Description() string {
	return "Prime dimensions 5..23: Hadamard + QFT, entropy vs ln d"
}

// Run executes the experiment.
func (e *PrimeQudits) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	primes := []int{5, 7, 11, 13, 17, 19, 23}

	type outcome struct {
		Prime      int     `json:"prime"`
		Entropy    float64 `json:"entropy"`
		MaxEntropy float64 `json:"max_entropy"`
		Percentage float64 `json:"percentage"`
	}

	results := make([]outcome, 0, len(primes))

	for _, p := range primes {
		state, err := qudit.New(p)
		if err != nil {
			return nil, fmt.Errorf("failed to create d=%d qudit: %w", p, err)
		}

		h, err := gates.Hadamard(p)
		if err != nil {
			return nil, fmt.Errorf("failed to build Hadamard for d=%d: %w", p, err)
		}
		if err := state.Apply(h); err != nil {
			return nil, fmt.Errorf("failed to apply Hadamard: %w", err)
		}

		qft, err := gates.QFT(p)
		if err != nil {
			return nil, fmt.Errorf("failed to build QFT for d=%d: %w", p, err)
		}
		if err := state.Apply(qft); err != nil {
			return nil, fmt.Errorf("failed to apply QFT: %w", err)
		}

		entropy := state.Entropy()
		maxEntropy := math.Log(float64(p))

		results = append(results, outcome{
			Prime:      p,
			Entropy:    entropy,
			MaxEntropy: maxEntropy,
			Percentage: entropy / maxEntropy * 100,
		})
	}

	report.Metrics["primes_tested"] = float64(len(results))
	report.Details["results"] = results

	return report.finish(), nil
}
