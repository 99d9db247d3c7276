// Package factoring implements order finding and Shor-style factor
// extraction for small composites.
package factoring

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrNoOrder indicates a^r never reached 1 mod N within the search bound,
// which happens when gcd(a, N) != 1.
var ErrNoOrder = errors.New("multiplicative order does not exist")

// ErrNotFactored indicates no nontrivial factor was found within the
// attempt budget.
var ErrNotFactored = errors.New("failed to find a nontrivial factor")

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// TrialDivision factors n into primes by trial division, smallest first.
func TrialDivision(n int) []int {
	var factors []int
	for n%2 == 0 {
		factors = append(factors, 2)
		n /= 2
	}
	for d := 3; d*d <= n; d += 2 {
		for n%d == 0 {
			factors = append(factors, d)
			n /= d
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// Order finds the multiplicative order of a modulo n by iterated
// multiplication: the smallest r > 0 with a^r ≡ 1 (mod n).
func Order(a, n int) (int, error) {
	if n <= 1 || GCD(a, n) != 1 {
		return 0, ErrNoOrder
	}

	value := a % n
	for r := 1; r <= n; r++ {
		if value == 1 {
			return r, nil
		}
		value = value * a % n
	}
	return 0, ErrNoOrder
}

// PowMod computes base^exp mod n by binary exponentiation.
func PowMod(base, exp, n int) int {
	result := 1
	base %= n
	for exp > 0 {
		if exp&1 == 1 {
			result = result * base % n
		}
		base = base * base % n
		exp >>= 1
	}
	return result
}

// Result describes one Shor-style factoring run.
type Result struct {
	N        int           `json:"n"`
	Factors  [2]int        `json:"factors"`
	Base     int           `json:"base"`
	Order    int           `json:"order"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
}

// Factor extracts a nontrivial factor pair of n using the order finding
// route: pick a random base, screen with gcd, find an even order r and try
// gcd(a^(r/2) ± 1, n).
func Factor(n int, rng *rand.Rand, maxAttempts int) (*Result, error) {
	if n < 4 {
		return nil, fmt.Errorf("n must be a composite >= 4, got %d", n)
	}
	if n%2 == 0 {
		return &Result{N: n, Factors: [2]int{2, n / 2}}, nil
	}
	if maxAttempts <= 0 {
		maxAttempts = 20
	}

	start := time.Now()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		a := 2 + rng.Intn(n-3)

		// A shared divisor is already a factor.
		if g := GCD(a, n); g > 1 {
			return &Result{
				N:        n,
				Factors:  orderedPair(g, n/g),
				Base:     a,
				Attempts: attempt,
				Duration: time.Since(start),
			}, nil
		}

		r, err := Order(a, n)
		if err != nil || r%2 != 0 {
			continue
		}

		half := PowMod(a, r/2, n)
		if half == n-1 {
			// a^(r/2) ≡ -1 gives only trivial factors.
			continue
		}

		for _, candidate := range []int{GCD(half-1, n), GCD(half+1, n)} {
			if candidate > 1 && candidate < n {
				return &Result{
					N:        n,
					Factors:  orderedPair(candidate, n/candidate),
					Base:     a,
					Order:    r,
					Attempts: attempt,
					Duration: time.Since(start),
				}, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: n=%d after %d attempts", ErrNotFactored, n, maxAttempts)
}

func orderedPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
