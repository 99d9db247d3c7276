package entangle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad/qlab/pkg/qudit"
)

func TestMaximallyEntangledEntropy(t *testing.T) {
	tests := []struct {
		name   string
		d1, d2 int
	}{
		{"qubit-qutrit", 2, 3},
		{"qutrit-quint", 3, 5},
		{"quint-qutrit", 5, 3},
		{"ququart pair", 4, 4},
		{"prime pair 7", 7, 7},
		{"asymmetric 2-8", 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := NewMaximallyEntangled(tt.d1, tt.d2)
			require.NoError(t, err)

			minD := tt.d1
			if tt.d2 < minD {
				minD = tt.d2
			}

			entropy, err := pair.Entropy()
			require.NoError(t, err)
			assert.InDelta(t, math.Log(float64(minD)), entropy, 1e-9)
			assert.InDelta(t, pair.MaxEntropy(), entropy, 1e-9)
		})
	}
}

func TestMaximallyEntangled35Eigenvalues(t *testing.T) {
	// (3,5): three nonzero eigenvalues of rho_A, each exactly 1/3.
	pair, err := NewMaximallyEntangled(3, 5)
	require.NoError(t, err)

	rho, err := ReducedDensity(pair.State(), 3, 5)
	require.NoError(t, err)

	eigs, err := hermitianEigenvalues(rho, 3)
	require.NoError(t, err)
	require.Len(t, eigs, 3)
	for _, lambda := range eigs {
		assert.InDelta(t, 1.0/3.0, lambda, 1e-9)
	}

	entropy, err := pair.Entropy()
	require.NoError(t, err)
	assert.InDelta(t, 1.0986122886681098, entropy, 1e-9)
}

func TestProductStateEntropyIsZero(t *testing.T) {
	// |0> tensor |0> has no entanglement.
	vec := make([]complex128, 6)
	vec[0] = 1
	pair, err := FromVector(2, 3, vec)
	require.NoError(t, err)

	entropy, err := pair.Entropy()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, entropy, 1e-9)
}

func TestFromVectorValidation(t *testing.T) {
	tests := []struct {
		name    string
		d1, d2  int
		vec     []complex128
		wantErr error
	}{
		{"wrong length", 2, 3, make([]complex128, 5), qudit.ErrDimensionMismatch},
		{"not normalized", 2, 2, []complex128{1, 1, 0, 0}, qudit.ErrNotNormalized},
		{"bad dimension", 1, 3, make([]complex128, 3), qudit.ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromVector(tt.d1, tt.d2, tt.vec)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstantPhasePreservesEntropy(t *testing.T) {
	// Diagonal gates cannot change Schmidt coefficients.
	pair, err := NewMaximallyEntangled(3, 5)
	require.NoError(t, err)

	before, err := pair.Entropy()
	require.NoError(t, err)

	phi := (1 + math.Sqrt(5)) / 2
	require.NoError(t, pair.ApplyConstantPhase(phi))

	after, err := pair.Entropy()
	require.NoError(t, err)
	assert.InDelta(t, before, after, 1e-9)
}

func TestControlledShiftOnQuquartPair(t *testing.T) {
	pair, err := NewMaximallyEntangled(4, 4)
	require.NoError(t, err)

	before, err := pair.Entropy()
	require.NoError(t, err)
	assert.InDelta(t, math.Log(4), before, 1e-9)

	// The controlled shift permutes basis states; the diagonal-support
	// state stays maximally entangled.
	require.NoError(t, pair.ApplyControlledShift())

	after, err := pair.Entropy()
	require.NoError(t, err)
	assert.InDelta(t, math.Log(4), after, 1e-9)
}

func TestControlledShiftNeedsEqualDims(t *testing.T) {
	pair, err := NewMaximallyEntangled(2, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, pair.ApplyControlledShift(), qudit.ErrDimensionMismatch)
}

func TestVonNeumannEntropyInstability(t *testing.T) {
	// A "density operator" with a clearly negative eigenvalue.
	rho := []complex128{
		complex(1.5, 0), 0,
		0, complex(-0.5, 0),
	}
	_, err := VonNeumannEntropy(rho, 2)
	assert.ErrorIs(t, err, qudit.ErrNumericalInstability)
}

func TestReducedDensityTrace(t *testing.T) {
	pair, err := NewMaximallyEntangled(3, 7)
	require.NoError(t, err)

	rho, err := ReducedDensity(pair.State(), 3, 7)
	require.NoError(t, err)

	trace := 0.0
	for i := 0; i < 3; i++ {
		trace += real(rho[i*3+i])
		assert.InDelta(t, 0.0, imag(rho[i*3+i]), 1e-12)
	}
	assert.InDelta(t, 1.0, trace, 1e-9)
}

func TestGHZ(t *testing.T) {
	tests := []struct {
		name string
		dims []int
		want float64
	}{
		{"triple 5-7-11", []int{5, 7, 11}, math.Log(5)},
		{"quad 3-5-7-11", []int{3, 5, 7, 11}, math.Log(3)},
		{"ququart pair", []int{4, 4}, math.Log(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ghz, err := NewGHZ(tt.dims)
			require.NoError(t, err)

			total := 1
			for _, d := range tt.dims {
				total *= d
			}
			assert.Equal(t, total, ghz.TotalDimension())
			assert.InDelta(t, tt.want, ghz.TotalEntropy(), 1e-9)

			reduced, err := ghz.ReducedEntropy()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, reduced, 1e-9)
		})
	}
}

func TestGHZValidation(t *testing.T) {
	_, err := NewGHZ([]int{3})
	assert.ErrorIs(t, err, qudit.ErrInvalidDimension)
	_, err = NewGHZ([]int{3, 1})
	assert.ErrorIs(t, err, qudit.ErrInvalidDimension)
}
