package benchmarks

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/qudit"
)

// Grover runs Grover's search over increasing space sizes and records
// the iteration count, success and wall time per size.
type Grover struct {
	sizes []int
}

// NewGrover creates the Grover search benchmark over the standard sizes.
func NewGrover() *Grover {
	return &Grover{sizes: []int{4, 8, 16, 32, 64, 128}}
}

// Name returns the benchmark identifier.
func (b *Grover) Name() string { return "grover" }

// Description returns a one-line summary.
func (b *Grover) Description() string {
	return "Grover search over N=4..128 with ⌊π√N/4⌋ iterations"
}

// Run executes the benchmark.
func (b *Grover) Run(ctx context.Context, rng *rand.Rand) (*Report, error) {
	report := newReport(b.Name())

	type outcome struct {
		N          int     `json:"n"`
		Iterations int     `json:"iterations"`
		Target     int     `json:"target"`
		Found      int     `json:"found"`
		Success    bool    `json:"success"`
		TimeMs     float64 `json:"time_ms"`
	}

	results := make([]outcome, 0, len(b.sizes))
	successes := 0

	for _, n := range b.sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := rng.Intn(n)
		iterations := int(math.Pi * math.Sqrt(float64(n)) / 4)

		start := time.Now()
		found, err := Search(n, target, iterations)
		if err != nil {
			return nil, fmt.Errorf("failed to search N=%d: %w", n, err)
		}
		elapsed := time.Since(start)

		success := found == target
		if success {
			successes++
		}

		results = append(results, outcome{
			N:          n,
			Iterations: iterations,
			Target:     target,
			Found:      found,
			Success:    success,
			TimeMs:     float64(elapsed.Microseconds()) / 1000,
		})
	}

	report.Metrics["sizes_tested"] = float64(len(results))
	report.Metrics["successes"] = float64(successes)
	report.Details["results"] = results

	return report.finish(), nil
}

// Search runs Grover's algorithm over an N element space and returns the
// index with the highest final probability.
func Search(n, target, iterations int) (int, error) {
	amps := make([]complex128, n)
	for i := range amps {
		amps[i] = complex(1/math.Sqrt(float64(n)), 0)
	}
	state, err := qudit.FromAmplitudes(amps)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare uniform state: %w", err)
	}

	oracle, err := gates.GroverOracle(n, target)
	if err != nil {
		return 0, fmt.Errorf("failed to build oracle: %w", err)
	}
	diffusion, err := gates.GroverDiffusion(n)
	if err != nil {
		return 0, fmt.Errorf("failed to build diffusion operator: %w", err)
	}

	for i := 0; i < iterations; i++ {
		if err := state.Apply(oracle); err != nil {
			return 0, fmt.Errorf("failed to apply oracle: %w", err)
		}
		if err := state.Apply(diffusion); err != nil {
			return 0, fmt.Errorf("failed to apply diffusion: %w", err)
		}
	}

	best := 0
	probs := state.Probabilities()
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, nil
}
