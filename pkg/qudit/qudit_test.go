package qudit

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		dimension int
		wantErr   error
	}{
		{"qubit", 2, nil},
		{"qutrit", 3, nil},
		{"large prime", 43, nil},
		{"dimension one", 1, ErrInvalidDimension},
		{"dimension zero", 0, ErrInvalidDimension},
		{"negative dimension", -1, ErrInvalidDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.dimension)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dimension, s.Dimension())

			amps := s.Amplitudes()
			assert.Equal(t, complex128(1), amps[0])
			for _, a := range amps[1:] {
				assert.Equal(t, complex128(0), a)
			}
			assert.InDelta(t, 1.0, s.Norm(), 1e-9)
		})
	}
}

func TestGroundStateEntropyIsZero(t *testing.T) {
	for _, d := range []int{2, 3, 4, 5, 7, 11, 43} {
		s, err := New(d)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, s.Entropy(), 1e-9, "d=%d", d)
	}
}

func TestApplyPreservesNorm(t *testing.T) {
	// DFT matrix for d=4: omega = i
	d := 4
	u := make([]complex128, d*d)
	for j := 0; j < d; j++ {
		for k := 0; k < d; k++ {
			theta := 2 * math.Pi * float64(j*k) / float64(d)
			u[j*d+k] = complex(math.Cos(theta)/2, math.Sin(theta)/2)
		}
	}

	s, err := New(d)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Apply(u))
		assert.InDelta(t, 1.0, s.Norm(), 1e-9, "after %d applications", i+1)
	}
}

func TestApplyDimensionMismatch(t *testing.T) {
	s, err := New(3)
	require.NoError(t, err)

	err = s.Apply(make([]complex128, 4))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMeasureGroundState(t *testing.T) {
	s, err := New(5)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		assert.Equal(t, 0, s.Measure(rng))
	}
}

func TestMeasureCollapses(t *testing.T) {
	s, err := FromAmplitudes([]complex128{0.5, 0.5, 0.5, 0.5})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	result := s.Measure(rng)

	require.GreaterOrEqual(t, result, 0)
	require.Less(t, result, 4)

	// Collapsed: repeated measurement is deterministic
	for i := 0; i < 100; i++ {
		assert.Equal(t, result, s.Measure(rng))
	}
	assert.InDelta(t, 0.0, s.Entropy(), 1e-9)
}

func TestMeasureDeterministicUnderSeed(t *testing.T) {
	run := func() []int {
		s, err := FromAmplitudes([]complex128{1, 1, 1})
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(7))

		out := make([]int, 0, 20)
		for i := 0; i < 20; i++ {
			fresh, err := FromAmplitudes(s.Amplitudes())
			require.NoError(t, err)
			out = append(out, fresh.Measure(rng))
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestFromAmplitudes(t *testing.T) {
	tests := []struct {
		name    string
		amps    []complex128
		wantErr error
	}{
		{"uniform qutrit", []complex128{1, 1, 1}, nil},
		{"already normalized", []complex128{1, 0}, nil},
		{"too short", []complex128{1}, ErrInvalidDimension},
		{"zero vector", []complex128{0, 0, 0}, ErrNotNormalized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromAmplitudes(tt.amps)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, 1.0, s.Norm(), 1e-9)
		})
	}
}

func TestEntropyUniformSuperposition(t *testing.T) {
	tests := []struct {
		name string
		d    int
	}{
		{"qubit", 2},
		{"qutrit", 3},
		{"ququart", 4},
		{"quint", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amps := make([]complex128, tt.d)
			for i := range amps {
				amps[i] = 1
			}
			s, err := FromAmplitudes(amps)
			require.NoError(t, err)

			assert.InDelta(t, math.Log(float64(tt.d)), s.Entropy(), 1e-9)
			assert.InDelta(t, math.Log2(float64(tt.d)), s.EntropyBits(), 1e-9)
		})
	}
}
