package entangle

import (
	"fmt"
	"math"

	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/qudit"
)

// normTol is how far the squared norm of a joint state may deviate from 1.
const normTol = 1e-6

// Pair is a bipartite joint state of two qudits with dimensions (d1, d2),
// stored as a vector of length d1*d2 with linear index i*d2 + j.
type Pair struct {
	d1    int
	d2    int
	state []complex128
}

// NewMaximallyEntangled builds the canonical maximally entangled state
// |Psi> = (1/sqrt(m)) sum |k,k> for k < m, m = min(d1,d2). This is the
// qudit generalization of the Bell states and its reduced state on the
// smaller subsystem is maximally mixed.
func NewMaximallyEntangled(d1, d2 int) (*Pair, error) {
	if d1 < 2 || d2 < 2 {
		return nil, fmt.Errorf("%w: (d1,d2)=(%d,%d)", qudit.ErrInvalidDimension, d1, d2)
	}

	minD := d1
	if d2 < minD {
		minD = d2
	}

	state := make([]complex128, d1*d2)
	amp := complex(1/math.Sqrt(float64(minD)), 0)
	for k := 0; k < minD; k++ {
		state[k*d2+k] = amp
	}

	return &Pair{d1: d1, d2: d2, state: state}, nil
}

// FromVector wraps an existing joint state vector. The length must equal
// d1*d2 and the vector must be unit norm within tolerance; the lab fails
// loudly here rather than silently accepting non-physical states.
func FromVector(d1, d2 int, vec []complex128) (*Pair, error) {
	if d1 < 2 || d2 < 2 {
		return nil, fmt.Errorf("%w: (d1,d2)=(%d,%d)", qudit.ErrInvalidDimension, d1, d2)
	}
	if len(vec) != d1*d2 {
		return nil, fmt.Errorf("%w: vector length %d, want %d", qudit.ErrDimensionMismatch, len(vec), d1*d2)
	}

	norm := 0.0
	for _, a := range vec {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if math.Abs(norm-1) > normTol {
		return nil, fmt.Errorf("%w: squared norm %.9f", qudit.ErrNotNormalized, norm)
	}

	state := make([]complex128, len(vec))
	copy(state, vec)

	return &Pair{d1: d1, d2: d2, state: state}, nil
}

// Dimensions returns (d1, d2).
func (p *Pair) Dimensions() (int, int) {
	return p.d1, p.d2
}

// State returns a copy of the joint state vector.
func (p *Pair) State() []complex128 {
	out := make([]complex128, len(p.state))
	copy(out, p.state)
	return out
}

// Entropy computes the von Neumann entropy of the reduced state of the
// first subsystem, in nats. For the canonical maximally entangled state
// this equals ln(min(d1,d2)); for a product state it is 0.
func (p *Pair) Entropy() (float64, error) {
	rho, err := ReducedDensity(p.state, p.d1, p.d2)
	if err != nil {
		return 0, err
	}
	return VonNeumannEntropy(rho, p.d1)
}

// MaxEntropy returns the entanglement ceiling ln(min(d1,d2)).
func (p *Pair) MaxEntropy() float64 {
	minD := p.d1
	if p.d2 < minD {
		minD = p.d2
	}
	return math.Log(float64(minD))
}

// ApplyConstantPhase applies the constant-framework diagonal gate
// |k> -> e^(i*c*pi*k/dim)|k> across the joint space. Diagonal gates leave
// the Schmidt coefficients alone, so the entropy is unchanged; the
// experiments verify exactly that.
func (p *Pair) ApplyConstantPhase(c float64) error {
	dim := p.d1 * p.d2
	g, err := gates.ConstantPhase(dim, c)
	if err != nil {
		return err
	}
	return p.apply(g, dim)
}

// ApplyControlledShift applies the generalized CNOT |c,t> -> |c,(t+c) mod d>
// to a pair of equal dimensions.
func (p *Pair) ApplyControlledShift() error {
	if p.d1 != p.d2 {
		return fmt.Errorf("%w: controlled shift needs equal dimensions, got (%d,%d)", qudit.ErrDimensionMismatch, p.d1, p.d2)
	}

	g, err := gates.ControlledShift(p.d1)
	if err != nil {
		return err
	}
	return p.apply(g, p.d1*p.d2)
}

func (p *Pair) apply(u []complex128, dim int) error {
	next := make([]complex128, dim)
	for j := 0; j < dim; j++ {
		row := u[j*dim : (j+1)*dim]
		var sum complex128
		for k, a := range p.state {
			sum += row[k] * a
		}
		next[j] = sum
	}
	p.state = next
	return nil
}
