// Package register implements quantum registers of n base-b qudits with a
// joint Hilbert space of dimension b^n. Single-site gates are applied by
// decoding each linear index into base-b digits, replacing the target
// digit, and re-encoding, so no b^n x b^n matrix is ever materialized.
package register

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/blackroad/qlab/pkg/qudit"
)

const probFloor = 1e-10

// Register is a quantum register of Sites() qudits, each of dimension
// Base(). Site 0 is the most significant digit of the linear index.
type Register struct {
	base  int
	sites int
	amps  []complex128
}

// New creates a register in the ground state |00...0>.
func New(base, sites int) (*Register, error) {
	if base < 2 {
		return nil, fmt.Errorf("%w: base=%d", qudit.ErrInvalidDimension, base)
	}
	if sites < 1 {
		return nil, fmt.Errorf("%w: sites=%d", qudit.ErrInvalidDimension, sites)
	}

	dim := 1
	for i := 0; i < sites; i++ {
		dim *= base
	}

	amps := make([]complex128, dim)
	amps[0] = 1

	return &Register{base: base, sites: sites, amps: amps}, nil
}

// Base returns the per-site dimension.
func (r *Register) Base() int { return r.base }

// Sites returns the number of qudits.
func (r *Register) Sites() int { return r.sites }

// Dimension returns the joint Hilbert space dimension base^sites.
func (r *Register) Dimension() int { return len(r.amps) }

// Amplitudes returns a copy of the joint state vector.
func (r *Register) Amplitudes() []complex128 {
	out := make([]complex128, len(r.amps))
	copy(out, r.amps)
	return out
}

// Probabilities returns the joint measurement distribution.
func (r *Register) Probabilities() []float64 {
	probs := make([]float64, len(r.amps))
	for i, a := range r.amps {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return probs
}

// ApplySingle applies a base x base gate to one site. The gate is given
// row-major as a flat slice of length base*base.
func (r *Register) ApplySingle(gate []complex128, site int) error {
	if len(gate) != r.base*r.base {
		return fmt.Errorf("%w: gate has %d entries, want %d x %d", qudit.ErrDimensionMismatch, len(gate), r.base, r.base)
	}
	if site < 0 || site >= r.sites {
		return fmt.Errorf("%w: site %d outside [0,%d)", qudit.ErrDimensionMismatch, site, r.sites)
	}

	// stride between consecutive values of the target digit
	stride := 1
	for i := r.sites - 1; i > site; i-- {
		stride *= r.base
	}

	next := make([]complex128, len(r.amps))
	for idx, a := range r.amps {
		if a == 0 {
			continue
		}
		old := (idx / stride) % r.base
		rest := idx - old*stride
		for newVal := 0; newVal < r.base; newVal++ {
			next[rest+newVal*stride] += gate[newVal*r.base+old] * a
		}
	}
	r.amps = next

	return nil
}

// ApplyAll applies the same single-site gate to every site in order.
func (r *Register) ApplyAll(gate []complex128) error {
	for site := 0; site < r.sites; site++ {
		if err := r.ApplySingle(gate, site); err != nil {
			return err
		}
	}
	return nil
}

// ApplyControlledShift applies |c,t> -> |c,(t+c) mod base> between two
// sites, the generalized CNOT of circuit layers.
func (r *Register) ApplyControlledShift(control, target int) error {
	if control < 0 || control >= r.sites || target < 0 || target >= r.sites || control == target {
		return fmt.Errorf("%w: control=%d target=%d with %d sites", qudit.ErrDimensionMismatch, control, target, r.sites)
	}

	ctrlStride := r.strideOf(control)
	tgtStride := r.strideOf(target)

	next := make([]complex128, len(r.amps))
	for idx, a := range r.amps {
		if a == 0 {
			continue
		}
		c := (idx / ctrlStride) % r.base
		t := (idx / tgtStride) % r.base
		dst := idx + ((t+c)%r.base-t)*tgtStride
		next[dst] += a
	}
	r.amps = next

	return nil
}

// Measure samples a joint outcome and collapses the register. The returned
// digits are per-site values, site 0 first.
func (r *Register) Measure(rng *rand.Rand) []int {
	probs := r.Probabilities()

	total := 0.0
	for _, p := range probs {
		total += p
	}

	x := rng.Float64() * total
	cum := 0.0
	outcome := len(r.amps) - 1
	for i, p := range probs {
		cum += p
		if x < cum {
			outcome = i
			break
		}
	}

	for i := range r.amps {
		r.amps[i] = 0
	}
	r.amps[outcome] = 1

	return r.digitsOf(outcome)
}

// Sample draws a joint outcome index from the current distribution without
// collapsing the state. Used for repeated-shot sampling.
func (r *Register) Sample(rng *rand.Rand) int {
	probs := r.Probabilities()

	total := 0.0
	for _, p := range probs {
		total += p
	}

	x := rng.Float64() * total
	cum := 0.0
	for i, p := range probs {
		cum += p
		if x < cum {
			return i
		}
	}
	return len(r.amps) - 1
}

// Entropy returns the Shannon entropy of the joint distribution in nats.
func (r *Register) Entropy() float64 {
	entropy := 0.0
	for _, p := range r.Probabilities() {
		if p > probFloor {
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}

func (r *Register) strideOf(site int) int {
	stride := 1
	for i := r.sites - 1; i > site; i-- {
		stride *= r.base
	}
	return stride
}

func (r *Register) digitsOf(idx int) []int {
	digits := make([]int, r.sites)
	for i := r.sites - 1; i >= 0; i-- {
		digits[i] = idx % r.base
		idx /= r.base
	}
	return digits
}
