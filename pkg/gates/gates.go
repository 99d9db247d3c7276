// Package gates constructs the unitary operators used across the lab:
// generalized Hadamard / discrete Fourier transforms, phase gates, the
// controlled-shift (generalized CNOT) and the Grover operators. All
// matrices are returned row-major as flat []complex128 slices of length
// d*d, compatible with qudit.State.Apply. Constructors are pure functions
// fully determined by their arguments.
package gates

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/blackroad/qlab/pkg/qudit"
)

// Hadamard returns the generalized Hadamard for dimension d:
// H[j,k] = omega^(jk)/sqrt(d) with omega = e^(2*pi*i/d).
//
// For d=2 this is the familiar qubit Hadamard. The flat all-ones/sqrt(d)
// matrix sometimes used as a "qudit Hadamard" is rank one and not unitary
// for d > 2; it only happens to map |0> to the uniform superposition. The
// DFT matrix is unitary for every d and agrees on that single use, so it
// is the generalized Hadamard here.
func Hadamard(d int) ([]complex128, error) {
	return QFT(d)
}

// QFT returns the discrete quantum Fourier transform matrix of size d:
// QFT[j,k] = omega^(jk)/sqrt(d) with omega = e^(2*pi*i/d).
func QFT(d int) ([]complex128, error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: d=%d", qudit.ErrInvalidDimension, d)
	}

	scale := 1 / math.Sqrt(float64(d))
	m := make([]complex128, d*d)
	for j := 0; j < d; j++ {
		for k := 0; k < d; k++ {
			theta := 2 * math.Pi * float64(j) * float64(k) / float64(d)
			m[j*d+k] = complex(scale*math.Cos(theta), scale*math.Sin(theta))
		}
	}

	return m, nil
}

// WalshHadamard4 returns the 4x4 Walsh matrix (+-1 entries over 2). Unlike
// the rank-one flat matrix, this one is a genuine unitary and is the
// ququart Hadamard of the base-4 experiments.
func WalshHadamard4() []complex128 {
	signs := [16]float64{
		1, 1, 1, 1,
		1, -1, 1, -1,
		1, 1, -1, -1,
		1, -1, -1, 1,
	}

	m := make([]complex128, 16)
	for i, v := range signs {
		m[i] = complex(v/2, 0)
	}
	return m
}

// Phase returns the diagonal phase gate |k> -> e^(i*phi*k)|k>.
func Phase(d int, phi float64) ([]complex128, error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: d=%d", qudit.ErrInvalidDimension, d)
	}

	m := make([]complex128, d*d)
	for k := 0; k < d; k++ {
		m[k*d+k] = cmplx.Exp(complex(0, phi*float64(k)))
	}
	return m, nil
}

// PhaseRotation returns the diagonal gate |k> -> e^(i*theta*k/d)|k>, the
// per-dimension phase ramp of the high-dimensional experiments.
func PhaseRotation(d int, theta float64) ([]complex128, error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: d=%d", qudit.ErrInvalidDimension, d)
	}

	m := make([]complex128, d*d)
	for k := 0; k < d; k++ {
		m[k*d+k] = cmplx.Exp(complex(0, theta*float64(k)/float64(d)))
	}
	return m, nil
}

// ConstantPhase returns the diagonal gate used by the constant-framework
// experiments on a joint space of the given dimension:
// |k> -> e^(i*c*pi*k/dim)|k> for a mathematical constant c.
func ConstantPhase(dim int, c float64) ([]complex128, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dim=%d", qudit.ErrInvalidDimension, dim)
	}

	m := make([]complex128, dim*dim)
	for k := 0; k < dim; k++ {
		m[k*dim+k] = cmplx.Exp(complex(0, c*math.Pi*float64(k)/float64(dim)))
	}
	return m, nil
}

// QuaternaryPhase returns the 4x4 diagonal gate applying an independent
// phase to each basis state of a ququart.
func QuaternaryPhase(phases [4]float64) []complex128 {
	m := make([]complex128, 16)
	for k := 0; k < 4; k++ {
		m[k*4+k] = cmplx.Exp(complex(0, phases[k]))
	}
	return m
}

// ControlledShift returns the generalized CNOT on a pair of d-dimensional
// systems: |c,t> -> |c,(t+c) mod d>. The result is a d^2 x d^2 permutation
// matrix over the joint space with index i*d + j. At d=2 this is CX, at
// d=4 the ququart CNOT.
func ControlledShift(d int) ([]complex128, error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: d=%d", qudit.ErrInvalidDimension, d)
	}

	dim := d * d
	m := make([]complex128, dim*dim)
	for ctrl := 0; ctrl < d; ctrl++ {
		for target := 0; target < d; target++ {
			src := ctrl*d + target
			dst := ctrl*d + (target+ctrl)%d
			m[dst*dim+src] = 1
		}
	}

	return m, nil
}

// Identity returns the d x d identity.
func Identity(d int) ([]complex128, error) {
	if d < 1 {
		return nil, fmt.Errorf("%w: d=%d", qudit.ErrInvalidDimension, d)
	}

	m := make([]complex128, d*d)
	for k := 0; k < d; k++ {
		m[k*d+k] = 1
	}
	return m, nil
}

// IsUnitary reports whether the d x d matrix satisfies U*U^H = I within
// the given per-entry tolerance.
func IsUnitary(u []complex128, d int, tol float64) bool {
	if len(u) != d*d {
		return false
	}

	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			var sum complex128
			for k := 0; k < d; k++ {
				sum += u[i*d+k] * cmplx.Conj(u[j*d+k])
			}

			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(sum-want) > tol {
				return false
			}
		}
	}

	return true
}
