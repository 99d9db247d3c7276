package benchmarks

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroverSearchFindsTarget(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		target int
	}{
		{name: "N=4", n: 4, target: 2},
		{name: "N=16", n: 16, target: 7},
		{name: "N=64", n: 64, target: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iterations := int(math.Pi * math.Sqrt(float64(tt.n)) / 4)
			found, err := Search(tt.n, tt.target, iterations)
			require.NoError(t, err)
			assert.Equal(t, tt.target, found)
		})
	}
}

func TestGroverBenchmarkReport(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	report, err := NewGrover().Run(context.Background(), rng)
	require.NoError(t, err)

	assert.Equal(t, "grover", report.Benchmark)
	assert.Equal(t, float64(6), report.Metrics["sizes_tested"])
	assert.Equal(t, float64(6), report.Metrics["successes"])
}

func TestCrossEntropyFidelity(t *testing.T) {
	// Sampling a delta distribution from itself gives XEB = 2^n - 1.
	ideal := []float64{1, 0, 0, 0}
	samples := []int{0, 0, 0}
	assert.InDelta(t, 3.0, CrossEntropyFidelity(samples, ideal, 2), 1e-9)

	// Uniform distribution gives XEB = 0 regardless of samples.
	uniform := []float64{0.25, 0.25, 0.25, 0.25}
	assert.InDelta(t, 0.0, CrossEntropyFidelity([]int{0, 1, 2, 3}, uniform, 2), 1e-9)

	assert.Equal(t, 0.0, CrossEntropyFidelity(nil, ideal, 2))
}

func TestClassicalEstimateGrowsExponentially(t *testing.T) {
	small := ClassicalEstimate(8, 8)
	large := ClassicalEstimate(16, 16)

	assert.Equal(t, 256, small.StateSize)
	assert.Equal(t, 65536, large.StateSize)
	assert.Greater(t, large.TimeSeconds, small.TimeSeconds)

	// Per-layer cost: (8*8 + 4*64) * 256 = 81920, times depth 8.
	assert.InDelta(t, 655360.0, small.TotalOps, 1e-6)
}

func TestSupremacySmallCircuit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	bench := NewSupremacyWithConfigs([]CircuitConfig{
		{Qubits: 4, Depth: 4, Shots: 200},
	})
	report, err := bench.Run(context.Background(), rng)
	require.NoError(t, err)

	assert.Equal(t, float64(1), report.Metrics["circuits_tested"])
}

func TestMonteCarloEstimate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	bench := NewMonteCarlo(200_000, 4)
	report, err := bench.Run(context.Background(), rng)
	require.NoError(t, err)

	assert.InDelta(t, math.Pi, report.Metrics["estimate_sequential"], 0.05)
	assert.InDelta(t, math.Pi, report.Metrics["estimate_parallel"], 0.05)
	assert.Equal(t, float64(4), report.Metrics["workers"])

	curve, ok := report.Details["convergence"].([]float64)
	require.True(t, ok)
	assert.Len(t, curve, convergencePoints)
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewPopulatedRegistry(zerolog.Nop(), 10_000, 2)

	assert.Equal(t, []string{"grover", "montecarlo", "supremacy"}, registry.Names())

	_, err := registry.Get("missing")
	assert.Error(t, err)

	report, err := registry.Run(context.Background(), "montecarlo", rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, "montecarlo", report.Benchmark)
}
