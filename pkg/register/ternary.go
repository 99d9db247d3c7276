package register

// BalancedTernary converts an integer to balanced ternary, digits in
// {-1, 0, +1}, most significant digit first. Zero encodes as [0].
// Balanced ternary represents negative numbers without a sign bit, which
// is what makes base-3 registers attractive for arithmetic demos.
func BalancedTernary(number int) []int {
	if number == 0 {
		return []int{0}
	}

	n := number
	if n < 0 {
		n = -n
	}

	var digits []int
	for n > 0 {
		switch n % 3 {
		case 2:
			digits = append(digits, -1)
			n = n/3 + 1
		default:
			digits = append(digits, n%3)
			n /= 3
		}
	}

	if number < 0 {
		for i := range digits {
			digits[i] = -digits[i]
		}
	}

	// most significant digit first
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return digits
}

// FromBalancedTernary converts balanced ternary digits (most significant
// first) back to an integer.
func FromBalancedTernary(digits []int) int {
	n := 0
	for _, d := range digits {
		n = n*3 + d
	}
	return n
}
