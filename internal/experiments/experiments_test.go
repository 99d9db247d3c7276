package experiments

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewPopulatedRegistry(zerolog.Nop())
}

func TestPopulatedRegistryNames(t *testing.T) {
	registry := testRegistry()

	assert.Equal(t, []string{
		"basic_qudit",
		"constant_comparison",
		"entangled_pair",
		"euler_pairs",
		"ghz",
		"magic_square",
		"prime_protocol",
		"prime_qudits",
		"ququart",
		"trinary",
	}, registry.Names())
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := testRegistry()

	_, err := registry.Get("does_not_exist")
	assert.Error(t, err)
}

func TestRunAllExperiments(t *testing.T) {
	registry := testRegistry()
	rng := rand.New(rand.NewSource(42))

	reports, err := registry.RunAll(context.Background(), rng)
	require.NoError(t, err)
	require.Len(t, reports, 10)

	for _, report := range reports {
		assert.NotEmpty(t, report.Experiment)
		assert.False(t, report.StartedAt.IsZero())
		assert.NotEmpty(t, report.Metrics)
	}
}

func TestEntangledPairPhaseInvariance(t *testing.T) {
	report, err := NewEntangledPair().Run(context.Background(), nil)
	require.NoError(t, err)

	// A diagonal phase gate cannot change the reduced spectrum.
	assert.InDelta(t, math.Log(3), report.Metrics["entropy_before"], 1e-9)
	assert.InDelta(t, report.Metrics["entropy_before"], report.Metrics["entropy_after"], 1e-9)
	assert.InDelta(t, 0, report.Metrics["entropy_change"], 1e-9)
}

func TestMagicSquareDimensions(t *testing.T) {
	report, err := NewMagicSquare().Run(context.Background(), nil)
	require.NoError(t, err)

	dims, ok := report.Details["dimensions"].([]int)
	require.True(t, ok)
	require.Len(t, dims, 16)

	// 16 mod 7 + 2 = 4, 3 mod 7 + 2 = 5.
	assert.Equal(t, 4, dims[0])
	assert.Equal(t, 5, dims[1])
	for _, d := range dims {
		assert.GreaterOrEqual(t, d, 2)
		assert.LessOrEqual(t, d, 8)
	}
}

func TestPrimeQuditsDoubleFourierReturnsToBasisState(t *testing.T) {
	report, err := NewPrimeQudits().Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, float64(7), report.Metrics["primes_tested"])

	// The Fourier matrix squared is the index-reversal operator, which
	// fixes |0>. So Hadamard followed by QFT lands back on a basis state
	// and the measured entropy is zero, far below the ln d ceiling.
	raw, err := json.Marshal(report.Details["results"])
	require.NoError(t, err)

	var outcomes []struct {
		Prime      int     `json:"prime"`
		Entropy    float64 `json:"entropy"`
		MaxEntropy float64 `json:"max_entropy"`
	}
	require.NoError(t, json.Unmarshal(raw, &outcomes))
	require.Len(t, outcomes, 7)

	for _, o := range outcomes {
		assert.InDelta(t, 0, o.Entropy, 1e-9, "d=%d", o.Prime)
		assert.InDelta(t, math.Log(float64(o.Prime)), o.MaxEntropy, 1e-12)
	}
}

func TestPrimeProtocolCapacities(t *testing.T) {
	report, err := NewPrimeProtocol().Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, float64(5), report.Metrics["primes_tested"])
}

func TestQuquartRoundTrip(t *testing.T) {
	report, err := NewQuquart().Run(context.Background(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, report.Metrics["entropy_before_bits"], 1e-9)
	assert.InDelta(t, math.Log(4), report.Metrics["pair_entropy"], 1e-9)
	assert.Less(t, report.Metrics["qft_round_trip_error"], 1e-9)
}

func TestTrinaryUniformSuperposition(t *testing.T) {
	report, err := NewTrinary().Run(context.Background(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/27.0, report.Metrics["max_probability"], 1e-9)
	assert.Equal(t, float64(27), report.Metrics["hilbert_dimension"])

	digits, ok := report.Details["balanced_ternary"].([]int)
	require.True(t, ok)
	assert.Equal(t, []int{1, -1, -1, -1, 0}, digits)
}

func TestConstantComparisonCoversAllConstants(t *testing.T) {
	report, err := NewConstantComparison().Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, float64(8), report.Metrics["constants_tested"])
	assert.NotEmpty(t, report.Details["best_constant"])
}
