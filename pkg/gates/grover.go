package gates

import (
	"fmt"

	"github.com/blackroad/qlab/pkg/qudit"
)

// GroverOracle returns the n x n oracle marking the target basis state:
// identity with the (target, target) entry negated.
func GroverOracle(n, target int) ([]complex128, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: n=%d", qudit.ErrInvalidDimension, n)
	}
	if target < 0 || target >= n {
		return nil, fmt.Errorf("%w: target %d outside [0,%d)", qudit.ErrDimensionMismatch, target, n)
	}

	m, err := Identity(n)
	if err != nil {
		return nil, err
	}
	m[target*n+target] = -1

	return m, nil
}

// GroverDiffusion returns the inversion-about-the-mean operator
// 2|s><s| - I, where |s> is the uniform superposition: every entry 2/n,
// minus one on the diagonal.
func GroverDiffusion(n int) ([]complex128, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: n=%d", qudit.ErrInvalidDimension, n)
	}

	off := complex(2/float64(n), 0)
	m := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m[i*n+j] = off
		}
		m[i*n+i] -= 1
	}

	return m, nil
}
