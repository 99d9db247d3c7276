package register

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/qudit"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		base    int
		sites   int
		wantDim int
		wantErr error
	}{
		{"three qutrits", 3, 3, 27, nil},
		{"eight qubits", 2, 8, 256, nil},
		{"single ququart", 4, 1, 4, nil},
		{"bad base", 1, 3, 0, qudit.ErrInvalidDimension},
		{"bad sites", 3, 0, 0, qudit.ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.base, tt.sites)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDim, r.Dimension())
			assert.InDelta(t, 1.0, r.Probabilities()[0], 1e-12)
		})
	}
}

func TestTrinaryHadamardUniform(t *testing.T) {
	// H3 on every site of a 3-qutrit register: 27 equal probabilities 1/27.
	r, err := New(3, 3)
	require.NoError(t, err)

	h3, err := gates.Hadamard(3)
	require.NoError(t, err)
	require.NoError(t, r.ApplyAll(h3))

	for i, p := range r.Probabilities() {
		assert.InDelta(t, 1.0/27.0, p, 1e-9, "state %d", i)
	}
	assert.InDelta(t, math.Log(27), r.Entropy(), 1e-9)
}

func TestApplySingleSiteOrder(t *testing.T) {
	// A NOT-like shift on site 0 of two qubits moves |00> to |10>, which
	// is linear index 2 with site 0 most significant.
	r, err := New(2, 2)
	require.NoError(t, err)

	not := []complex128{0, 1, 1, 0}
	require.NoError(t, r.ApplySingle(not, 0))

	probs := r.Probabilities()
	assert.InDelta(t, 1.0, probs[2], 1e-12)
}

func TestApplyControlledShift(t *testing.T) {
	// Prepare |1,0> on two qubits, apply CX(0,1): expect |1,1>.
	r, err := New(2, 2)
	require.NoError(t, err)

	not := []complex128{0, 1, 1, 0}
	require.NoError(t, r.ApplySingle(not, 0))
	require.NoError(t, r.ApplyControlledShift(0, 1))

	probs := r.Probabilities()
	assert.InDelta(t, 1.0, probs[3], 1e-12)
}

func TestControlledShiftValidation(t *testing.T) {
	r, err := New(2, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, r.ApplyControlledShift(0, 0), qudit.ErrDimensionMismatch)
	assert.ErrorIs(t, r.ApplyControlledShift(0, 2), qudit.ErrDimensionMismatch)
}

func TestMeasureGround(t *testing.T) {
	r, err := New(3, 2)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	digits := r.Measure(rng)
	assert.Equal(t, []int{0, 0}, digits)
}

func TestSampleDeterministicUnderSeed(t *testing.T) {
	build := func() *Register {
		r, err := New(2, 4)
		require.NoError(t, err)
		h, err := gates.Hadamard(2)
		require.NoError(t, err)
		require.NoError(t, r.ApplyAll(h))
		return r
	}

	draw := func() []int {
		r := build()
		rng := rand.New(rand.NewSource(42))
		out := make([]int, 0, 50)
		for i := 0; i < 50; i++ {
			out = append(out, r.Sample(rng))
		}
		return out
	}

	assert.Equal(t, draw(), draw())
}

func TestBalancedTernary(t *testing.T) {
	tests := []struct {
		name   string
		number int
		want   []int
	}{
		{"zero", 0, []int{0}},
		{"one", 1, []int{1}},
		{"two", 2, []int{1, -1}},
		{"forty-two", 42, []int{1, -1, -1, -1, 0}},
		{"negative five", -5, []int{-1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BalancedTernary(tt.number)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.number, FromBalancedTernary(got))
		})
	}
}

func TestBalancedTernaryRoundTrip(t *testing.T) {
	for n := -100; n <= 100; n++ {
		assert.Equal(t, n, FromBalancedTernary(BalancedTernary(n)), "n=%d", n)
	}
}
