package experiments

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/blackroad/qlab/pkg/entangle"
	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/qudit"
)

// Dürer's 4x4 magic square, row-major. Every row, column and diagonal sums
// to 34.
var durerSquare = [16]int{
	16, 3, 2, 13,
	5, 10, 11, 8,
	9, 6, 7, 12,
	4, 15, 14, 1,
}

// MagicSquare maps each cell of Dürer's square to a qudit dimension
// (value mod 7 + 2, so dimensions 2 through 8), puts all sixteen qudits
// in superposition and entangles the first row pair.
type MagicSquare struct{}

// NewMagicSquare creates the magic square experiment.
func NewMagicSquare() *MagicSquare {
	return &MagicSquare{}
}

// Name returns the experiment identifier.
func (e *MagicSquare) Name() string { return "magic_square" }

// Description returns a one-line summary.
func (e *MagicSquare) Description() string {
	return "Dürer magic square cells as qudit dimensions, first row pair entropy"
}

// Run executes the experiment.
func (e *MagicSquare) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	dimensions := make([]int, len(durerSquare))
	for i, v := range durerSquare {
		dimensions[i] = v%7 + 2
	}

	for i, d := range dimensions {
		state, err := qudit.New(d)
		if err != nil {
			return nil, fmt.Errorf("failed to create cell %d qudit: %w", i, err)
		}
		h, err := gates.Hadamard(d)
		if err != nil {
			return nil, fmt.Errorf("failed to build Hadamard for d=%d: %w", d, err)
		}
		if err := state.Apply(h); err != nil {
			return nil, fmt.Errorf("failed to apply Hadamard to cell %d: %w", i, err)
		}
	}

	rowPair, err := entangle.NewMaximallyEntangled(dimensions[0], dimensions[1])
	if err != nil {
		return nil, fmt.Errorf("failed to entangle first row pair: %w", err)
	}
	rowEntropy, err := rowPair.Entropy()
	if err != nil {
		return nil, fmt.Errorf("failed to compute row entropy: %w", err)
	}

	report.Metrics["qudits_created"] = float64(len(dimensions))
	report.Metrics["row_entropy"] = rowEntropy
	report.Details["dimensions"] = dimensions
	report.Details["magic_constant"] = 34

	return report.finish(), nil
}
