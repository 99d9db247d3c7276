// Package qudit implements d-dimensional pure quantum states (qudits).
// A qudit generalizes the two-level qubit to an arbitrary dimension d: its
// state is a unit-norm complex vector of length d over the computational
// basis |0>..|d-1>. Gates are unitary matrices applied by matrix-vector
// multiplication, measurement samples the Born probabilities |psi_k|^2 and
// collapses the state.
package qudit

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
)

// probFloor is the threshold below which probabilities are treated as
// numerical zeros (avoids log(0) in entropy sums).
const probFloor = 1e-10

// State is a d-dimensional pure state. The zero value is not usable;
// construct with New. A State is owned by a single caller and is not safe
// for concurrent mutation.
type State struct {
	d    int
	amps []complex128
}

// New creates a qudit of the given dimension in the ground state |0>.
func New(dimension int) (*State, error) {
	if dimension < 2 {
		return nil, fmt.Errorf("%w: d=%d (need d >= 2)", ErrInvalidDimension, dimension)
	}

	amps := make([]complex128, dimension)
	amps[0] = 1

	return &State{d: dimension, amps: amps}, nil
}

// FromAmplitudes creates a qudit from explicit amplitudes, normalizing them.
// A zero vector cannot be normalized and is rejected.
func FromAmplitudes(amps []complex128) (*State, error) {
	if len(amps) < 2 {
		return nil, fmt.Errorf("%w: got %d amplitudes (need >= 2)", ErrInvalidDimension, len(amps))
	}

	norm := 0.0
	for _, a := range amps {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if norm < probFloor {
		return nil, fmt.Errorf("%w: zero amplitude vector", ErrNotNormalized)
	}

	scale := complex(1/math.Sqrt(norm), 0)
	out := make([]complex128, len(amps))
	for i, a := range amps {
		out[i] = a * scale
	}

	return &State{d: len(amps), amps: out}, nil
}

// Dimension returns d.
func (s *State) Dimension() int {
	return s.d
}

// Amplitudes returns a copy of the amplitude vector.
func (s *State) Amplitudes() []complex128 {
	out := make([]complex128, s.d)
	copy(out, s.amps)
	return out
}

// Probabilities returns the Born-rule probability vector |psi_k|^2.
func (s *State) Probabilities() []float64 {
	probs := make([]float64, s.d)
	for i, a := range s.amps {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// Norm returns the Euclidean norm of the state vector (1 for a valid state,
// up to floating point error).
func (s *State) Norm() float64 {
	total := 0.0
	for _, a := range s.amps {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(total)
}

// Apply left-multiplies the state by a d x d operator: psi <- U * psi.
// If U is unitary the norm is preserved. The operator is given row-major
// as a flat slice of length d*d.
func (s *State) Apply(u []complex128) error {
	if len(u) != s.d*s.d {
		return fmt.Errorf("%w: operator has %d entries, want %d x %d", ErrDimensionMismatch, len(u), s.d, s.d)
	}

	next := make([]complex128, s.d)
	for j := 0; j < s.d; j++ {
		row := u[j*s.d : (j+1)*s.d]
		var sum complex128
		for k, a := range s.amps {
			sum += row[k] * a
		}
		next[j] = sum
	}
	s.amps = next

	return nil
}

// Measure samples an outcome k with probability |psi_k|^2 and collapses the
// state to the basis vector |k>. The provided source makes measurement
// deterministic under a fixed seed.
func (s *State) Measure(rng *rand.Rand) int {
	probs := s.Probabilities()

	// Guard against drift from repeated gate applications.
	total := 0.0
	for _, p := range probs {
		total += p
	}

	r := rng.Float64() * total
	cum := 0.0
	result := s.d - 1
	for k, p := range probs {
		cum += p
		if r < cum {
			result = k
			break
		}
	}

	// Collapse
	for i := range s.amps {
		s.amps[i] = 0
	}
	s.amps[result] = 1

	return result
}

// Entropy returns the Shannon entropy of the measurement distribution in
// nats: S = -sum p_k ln p_k. The ground state has entropy 0; the uniform
// superposition has entropy ln d.
func (s *State) Entropy() float64 {
	entropy := 0.0
	for _, p := range s.Probabilities() {
		if p > probFloor {
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}

// EntropyBits returns the Shannon entropy in bits (log base 2). The uniform
// ququart superposition measures 2 bits.
func (s *State) EntropyBits() float64 {
	return s.Entropy() / math.Ln2
}
