// Package entangle builds bipartite and multipartite entangled qudit
// states and measures their entanglement via the von Neumann entropy of
// the reduced density operator.
package entangle

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/blackroad/qlab/pkg/qudit"
)

const (
	// eigFloor drops eigenvalues that are numerical zeros before the log.
	eigFloor = 1e-10

	// negTol is how negative an eigenvalue of a reduced density operator
	// may go before the input is considered non-physical.
	negTol = 1e-8
)

// ReducedDensity reshapes a joint state vector of length d1*d2 into a
// d1 x d2 matrix M (row-major, linear index i*d2 + j) and returns the
// reduced density operator of the first subsystem, rho_A = M * M^H, as a
// flat row-major d1 x d1 matrix.
func ReducedDensity(vec []complex128, d1, d2 int) ([]complex128, error) {
	if d1 < 2 || d2 < 2 {
		return nil, fmt.Errorf("%w: (d1,d2)=(%d,%d)", qudit.ErrInvalidDimension, d1, d2)
	}
	if len(vec) != d1*d2 {
		return nil, fmt.Errorf("%w: vector length %d, want %d*%d=%d", qudit.ErrDimensionMismatch, len(vec), d1, d2, d1*d2)
	}

	rho := make([]complex128, d1*d1)
	for i := 0; i < d1; i++ {
		for j := 0; j < d1; j++ {
			var sum complex128
			for k := 0; k < d2; k++ {
				sum += vec[i*d2+k] * cmplx.Conj(vec[j*d2+k])
			}
			rho[i*d1+j] = sum
		}
	}

	return rho, nil
}

// VonNeumannEntropy computes S = -sum lambda ln(lambda) over the
// eigenvalues of the Hermitian operator rho (flat row-major d x d).
// Eigenvalues below the numerical-noise floor are dropped to avoid log(0);
// significantly negative eigenvalues indicate a malformed operator and
// return ErrNumericalInstability.
func VonNeumannEntropy(rho []complex128, d int) (float64, error) {
	if len(rho) != d*d {
		return 0, fmt.Errorf("%w: operator has %d entries, want %d x %d", qudit.ErrDimensionMismatch, len(rho), d, d)
	}

	eigs, err := hermitianEigenvalues(rho, d)
	if err != nil {
		return 0, err
	}

	entropy := 0.0
	for _, lambda := range eigs {
		if lambda < -negTol {
			return 0, fmt.Errorf("%w: eigenvalue %.3e below zero", qudit.ErrNumericalInstability, lambda)
		}
		if lambda > eigFloor {
			entropy -= lambda * math.Log(lambda)
		}
	}

	return entropy, nil
}

// hermitianEigenvalues computes the eigenvalues of a d x d Hermitian
// matrix rho = X + iY through its real symmetric embedding
//
//	S = | X  -Y |
//	    | Y   X |
//
// whose spectrum is that of rho with every eigenvalue doubled. The 2d
// sorted eigenvalues of S therefore contain each eigenvalue of rho an even
// number of times; taking every second entry recovers the spectrum of rho.
// This keeps the solve inside gonum's real symmetric EigenSym.
func hermitianEigenvalues(rho []complex128, d int) ([]float64, error) {
	n := 2 * d
	sym := mat.NewSymDense(n, nil)

	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			x := real(rho[i*d+j])
			y := imag(rho[i*d+j])

			sym.SetSym(i, j, x)
			sym.SetSym(d+i, d+j, x)
			// Upper triangle of the off-diagonal blocks: S[i][d+j] = -Y[i][j].
			sym.SetSym(i, d+j, -y)
			if i != j {
				sym.SetSym(j, d+i, y)
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return nil, fmt.Errorf("%w: eigendecomposition failed", qudit.ErrNumericalInstability)
	}

	values := eig.Values(nil)
	out := make([]float64, d)
	for i := 0; i < d; i++ {
		out[i] = values[2*i]
	}

	return out, nil
}
