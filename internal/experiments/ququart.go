package experiments

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/blackroad/qlab/pkg/entangle"
	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/qudit"
)

// Ququart runs the d=4 suite: single ququart interference through Walsh
// Hadamard, quaternary phases and QFT4, an entangled ququart pair under
// CNOT-4, and a QFT4 fourth power round trip.
type Ququart struct{}

// NewQuquart creates the ququart experiment.
func NewQuquart() *Ququart {
	return &Ququart{}
}

// Name returns the experiment identifier.
func (e *Ququart) Name() string { return "ququart" }

// Description returns a one-line summary.
func (e *Ququart) Description() string {
	return "Ququart interference, entangled pair under CNOT-4, QFT4 round trip"
}

// Run executes the experiment.
func (e *Ququart) Run(_ context.Context, _ *rand.Rand) (*Report, error) {
	report := newReport(e.Name())

	const d = 4

	// Single ququart interference.
	state, err := qudit.New(d)
	if err != nil {
		return nil, fmt.Errorf("failed to create ququart: %w", err)
	}
	if err := state.Apply(gates.WalshHadamard4()); err != nil {
		return nil, fmt.Errorf("failed to apply Walsh Hadamard: %w", err)
	}
	entropyBefore := state.EntropyBits()

	phases := gates.QuaternaryPhase([4]float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4})
	if err := state.Apply(phases); err != nil {
		return nil, fmt.Errorf("failed to apply quaternary phases: %w", err)
	}

	qft, err := gates.QFT(d)
	if err != nil {
		return nil, fmt.Errorf("failed to build QFT4: %w", err)
	}
	if err := state.Apply(qft); err != nil {
		return nil, fmt.Errorf("failed to apply QFT4: %w", err)
	}
	entropyAfter := state.EntropyBits()

	// Entangled ququart pair under CNOT-4.
	pair, err := entangle.NewMaximallyEntangled(d, d)
	if err != nil {
		return nil, fmt.Errorf("failed to create ququart pair: %w", err)
	}
	pairEntropy, err := pair.Entropy()
	if err != nil {
		return nil, fmt.Errorf("failed to compute pair entropy: %w", err)
	}
	if err := pair.ApplyControlledShift(); err != nil {
		return nil, fmt.Errorf("failed to apply CNOT-4: %w", err)
	}
	entropyAfterCNOT, err := pair.Entropy()
	if err != nil {
		return nil, fmt.Errorf("failed to compute entropy after CNOT-4: %w", err)
	}

	// QFT4 applied four times returns to the start up to a global phase.
	roundTripError, err := qftRoundTripError(d)
	if err != nil {
		return nil, err
	}

	report.Metrics["entropy_before_bits"] = entropyBefore
	report.Metrics["entropy_after_bits"] = entropyAfter
	report.Metrics["max_entropy_bits"] = 2.0
	report.Metrics["pair_entropy"] = pairEntropy
	report.Metrics["pair_entropy_after_cnot"] = entropyAfterCNOT
	report.Metrics["pair_max_entropy"] = math.Log(d)
	report.Metrics["qft_round_trip_error"] = roundTripError

	return report.finish(), nil
}

// qftRoundTripError applies QFT d four times to a reference state and
// returns the deviation from the initial amplitudes, ignoring global phase.
func qftRoundTripError(d int) (float64, error) {
	state, err := qudit.FromAmplitudes(referenceAmplitudes(d))
	if err != nil {
		return 0, fmt.Errorf("failed to build reference state: %w", err)
	}
	initial := state.Amplitudes()

	qft, err := gates.QFT(d)
	if err != nil {
		return 0, fmt.Errorf("failed to build QFT: %w", err)
	}
	for i := 0; i < 4; i++ {
		if err := state.Apply(qft); err != nil {
			return 0, fmt.Errorf("failed to apply QFT: %w", err)
		}
	}

	final := state.Amplitudes()

	// Remove global phase by aligning on the largest amplitude.
	ref := 0
	for i, a := range initial {
		if cmplx.Abs(a) > cmplx.Abs(initial[ref]) {
			ref = i
		}
	}
	align := complex(1, 0)
	if cmplx.Abs(final[ref]) > 0 {
		align = initial[ref] / final[ref]
	}

	maxErr := 0.0
	for i := range initial {
		if diff := cmplx.Abs(final[i]*align - initial[i]); diff > maxErr {
			maxErr = diff
		}
	}
	return maxErr, nil
}

func referenceAmplitudes(d int) []complex128 {
	amps := make([]complex128, d)
	for k := range amps {
		amps[k] = complex(float64(k+1), 0)
	}
	return amps
}
