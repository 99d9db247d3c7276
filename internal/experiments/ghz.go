package experiments

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/blackroad/qlab/pkg/entangle"
)

// GHZExperiment builds multi-qudit GHZ states over heterogeneous prime
// dimensions and checks total entropy against ln(min d).
type GHZExperiment struct{}

// NewGHZ creates the GHZ state experiment.
func NewGHZ() *GHZExperiment {
	return &GHZExperiment{}
}

// Name returns the experiment identifier.
func (e *GHZExperiment) Name() string { return "ghz" }

// Description returns a one-line summary.
func (e *GHZExperiment) Description() string {
	return "GHZ states over (5,7,11) and (3,5,7,11), total and reduced entropy"
}

// Run executes the experiment.
func (e *GHZExperiment) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	systems := [][]int{
		{5, 7, 11},
		{3, 5, 7, 11},
	}

	type outcome struct {
		Dimensions      []int   `json:"dimensions"`
		TotalDimension  int     `json:"total_dimension"`
		TotalEntropy    float64 `json:"total_entropy"`
		ReducedEntropy  float64 `json:"reduced_entropy"`
		ExpectedEntropy float64 `json:"expected_entropy"`
	}

	results := make([]outcome, 0, len(systems))

	for _, dims := range systems {
		ghz, err := entangle.NewGHZ(dims)
		if err != nil {
			return nil, fmt.Errorf("failed to create GHZ state %v: %w", dims, err)
		}

		reduced, err := ghz.ReducedEntropy()
		if err != nil {
			return nil, fmt.Errorf("failed to compute reduced entropy for %v: %w", dims, err)
		}

		minD := dims[0]
		for _, d := range dims[1:] {
			if d < minD {
				minD = d
			}
		}

		results = append(results, outcome{
			Dimensions:      dims,
			TotalDimension:  ghz.TotalDimension(),
			TotalEntropy:    ghz.TotalEntropy(),
			ReducedEntropy:  reduced,
			ExpectedEntropy: math.Log(float64(minD)),
		})
	}

	report.Metrics["systems_tested"] = float64(len(results))
	report.Details["results"] = results

	return report.finish(), nil
}
