// Package constants holds the immutable table of mathematical constants
// the lab's experiments sweep over. The table never changes at runtime;
// callers receive copies and there is no mutable package state.
package constants

import "math"

// Constant is a named mathematical constant.
type Constant struct {
	Name  string
	Value float64
}

// The framework constants, in canonical order.
var table = []Constant{
	{Name: "φ", Value: (1 + math.Sqrt(5)) / 2},
	{Name: "π", Value: math.Pi},
	{Name: "e", Value: math.E},
	{Name: "γ", Value: 0.5772156649015329},
	{Name: "ζ(3)", Value: 1.2020569031595943},
	{Name: "√2", Value: math.Sqrt2},
	{Name: "√3", Value: math.Sqrt(3)},
	{Name: "√5", Value: math.Sqrt(5)},
}

// All returns a copy of the table in canonical order.
func All() []Constant {
	out := make([]Constant, len(table))
	copy(out, table)
	return out
}

// Lookup returns the constant with the given name.
func Lookup(name string) (Constant, bool) {
	for _, c := range table {
		if c.Name == name {
			return c, true
		}
	}
	return Constant{}, false
}

// Nearest returns the constant closest to x and the absolute difference.
func Nearest(x float64) (Constant, float64) {
	best := table[0]
	bestDist := math.Abs(x - best.Value)
	for _, c := range table[1:] {
		if d := math.Abs(x - c.Value); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, bestDist
}

// Matches reports whether x lies within tol of any constant in the table.
func Matches(x, tol float64) (Constant, bool) {
	c, dist := Nearest(x)
	return c, dist <= tol
}
