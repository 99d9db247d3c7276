package factoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialDivision(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{name: "15", n: 15, want: []int{3, 5}},
		{name: "21", n: 21, want: []int{3, 7}},
		{name: "64", n: 64, want: []int{2, 2, 2, 2, 2, 2}},
		{name: "prime", n: 97, want: []int{97}},
		{name: "1155", n: 1155, want: []int{3, 5, 7, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrialDivision(tt.n))
		})
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name    string
		a, n    int
		want    int
		wantErr bool
	}{
		{name: "2 mod 15", a: 2, n: 15, want: 4},
		{name: "7 mod 15", a: 7, n: 15, want: 4},
		{name: "2 mod 21", a: 2, n: 21, want: 6},
		{name: "shared divisor", a: 6, n: 15, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Order(tt.a, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPowMod(t *testing.T) {
	assert.Equal(t, 1, PowMod(2, 4, 15))
	assert.Equal(t, 8, PowMod(2, 3, 15))
	assert.Equal(t, 4, PowMod(2, 2, 15))
}

func TestFactor(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want [2]int
	}{
		{name: "15", n: 15, want: [2]int{3, 5}},
		{name: "21", n: 21, want: [2]int{3, 7}},
		{name: "35", n: 35, want: [2]int{5, 7}},
		{name: "even", n: 22, want: [2]int{2, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			result, err := Factor(tt.n, rng, 50)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Factors)
			assert.Equal(t, tt.n, result.Factors[0]*result.Factors[1])
		})
	}
}

func TestFactorRejectsSmallN(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Factor(3, rng, 10)
	assert.Error(t, err)
}

func TestIsPrime(t *testing.T) {
	assert.True(t, IsPrime(2))
	assert.True(t, IsPrime(23))
	assert.False(t, IsPrime(1))
	assert.False(t, IsPrime(21))
}
