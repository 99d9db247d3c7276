package entangle

import (
	"fmt"
	"math"

	"github.com/blackroad/qlab/pkg/qudit"
)

// GHZ is a Greenberger-Horne-Zeilinger state over N qudits of potentially
// different dimensions: |GHZ> = (1/sqrt(m)) sum |k,k,...,k> for k < m,
// m = min(dimensions). The joint vector uses row-major multi-index order
// (the last qudit varies fastest).
type GHZ struct {
	dims  []int
	state []complex128
}

// NewGHZ builds the generalized GHZ state for the given dimensions.
func NewGHZ(dimensions []int) (*GHZ, error) {
	if len(dimensions) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 qudits, got %d", qudit.ErrInvalidDimension, len(dimensions))
	}

	total := 1
	minD := dimensions[0]
	for _, d := range dimensions {
		if d < 2 {
			return nil, fmt.Errorf("%w: d=%d", qudit.ErrInvalidDimension, d)
		}
		total *= d
		if d < minD {
			minD = d
		}
	}

	dims := make([]int, len(dimensions))
	copy(dims, dimensions)

	state := make([]complex128, total)
	amp := complex(1/math.Sqrt(float64(minD)), 0)
	for k := 0; k < minD; k++ {
		idx := 0
		for _, d := range dims {
			idx = idx*d + k
		}
		state[idx] = amp
	}

	return &GHZ{dims: dims, state: state}, nil
}

// Dimensions returns a copy of the per-qudit dimensions.
func (g *GHZ) Dimensions() []int {
	out := make([]int, len(g.dims))
	copy(out, g.dims)
	return out
}

// TotalDimension returns the joint Hilbert space dimension, the product of
// the per-qudit dimensions.
func (g *GHZ) TotalDimension() int {
	return len(g.state)
}

// State returns a copy of the joint state vector.
func (g *GHZ) State() []complex128 {
	out := make([]complex128, len(g.state))
	copy(out, g.state)
	return out
}

// TotalEntropy returns the Shannon entropy of the joint measurement
// distribution in nats. For a GHZ state this is ln(min(dimensions)): the
// state has exactly min(d) equally weighted branches.
func (g *GHZ) TotalEntropy() float64 {
	entropy := 0.0
	for _, a := range g.state {
		p := real(a)*real(a) + imag(a)*imag(a)
		if p > eigFloor {
			entropy -= p * math.Log(p)
		}
	}
	return entropy
}

// ReducedEntropy returns the entanglement entropy of the bipartition that
// splits the first qudit from the rest, computed through the reduced
// density operator.
func (g *GHZ) ReducedEntropy() (float64, error) {
	d1 := g.dims[0]
	d2 := len(g.state) / d1

	rho, err := ReducedDensity(g.state, d1, d2)
	if err != nil {
		return 0, err
	}
	return VonNeumannEntropy(rho, d1)
}
