package qudit

import "errors"

// Sentinel errors for state and operator validation.
// Callers match with errors.Is.
var (
	// ErrInvalidDimension is returned when a dimension is too small to
	// describe a quantum system (states need d >= 2, operators d >= 1).
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrDimensionMismatch is returned when an operator or vector does not
	// match the dimension of the system it is applied to.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotNormalized is returned when a state vector deviates from unit
	// norm beyond tolerance.
	ErrNotNormalized = errors.New("state is not normalized")

	// ErrNumericalInstability is returned when an eigensolve produces
	// significantly negative eigenvalues for an operator that should be
	// positive semi-definite.
	ErrNumericalInstability = errors.New("numerical instability")
)
