package benchmarks

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/blackroad/qlab/pkg/gates"
	"github.com/blackroad/qlab/pkg/register"
)

// classicalGFLOPS is the assumed throughput of an optimized classical
// state vector simulator.
const classicalGFLOPS = 100

// CircuitConfig describes one random circuit sampling run.
type CircuitConfig struct {
	Qubits int `json:"qubits"`
	Depth  int `json:"depth"`
	Shots  int `json:"shots"`
}

// DefaultCircuitConfigs mirrors the standard escalating sweep.
func DefaultCircuitConfigs() []CircuitConfig {
	return []CircuitConfig{
		{Qubits: 8, Depth: 8, Shots: 1000},
		{Qubits: 10, Depth: 10, Shots: 500},
		{Qubits: 12, Depth: 12, Shots: 100},
		{Qubits: 14, Depth: 14, Shots: 100},
	}
}

// Supremacy runs the random circuit sampling protocol: brickwork circuits of
// Hadamard, Rz and CNOT layers, sampled and scored with cross-entropy
// benchmarking against the ideal distribution.
type Supremacy struct {
	configs []CircuitConfig
}

// NewSupremacy creates the sampling benchmark with the default sweep.
func NewSupremacy() *Supremacy {
	return &Supremacy{configs: DefaultCircuitConfigs()}
}

// NewSupremacyWithConfigs creates the sampling benchmark over custom circuits.
func NewSupremacyWithConfigs(configs []CircuitConfig) *Supremacy {
	return &Supremacy{configs: configs}
}

// Name returns the benchmark identifier.
func (b *Supremacy) Name() string { return "supremacy" }

// Description returns a one-line summary.
func (b *Supremacy) Description() string {
	return "Random circuit sampling with cross-entropy benchmarking"
}

// Run executes the benchmark.
func (b *Supremacy) Run(ctx context.Context, rng *rand.Rand) (*Report, error) {
	report := newReport(b.Name())

	type outcome struct {
		Qubits           int     `json:"qubits"`
		Depth            int     `json:"depth"`
		Gates            int     `json:"gates"`
		Shots            int     `json:"shots"`
		QuantumTimeMs    float64 `json:"quantum_time_ms"`
		ClassicalTimeS   float64 `json:"classical_time_s"`
		Speedup          float64 `json:"speedup"`
		XEBFidelity      float64 `json:"xeb_fidelity"`
		UniqueBitstrings int     `json:"unique_bitstrings"`
		MemoryGB         float64 `json:"memory_gb"`
	}

	results := make([]outcome, 0, len(b.configs))

	for _, cfg := range b.configs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		reg, gateCount, err := randomCircuit(cfg.Qubits, cfg.Depth, rng)
		if err != nil {
			return nil, fmt.Errorf("failed to build %d qubit circuit: %w", cfg.Qubits, err)
		}

		probs := reg.Probabilities()

		samples := make([]int, cfg.Shots)
		unique := make(map[int]struct{}, cfg.Shots)
		for i := range samples {
			s := reg.Sample(rng)
			samples[i] = s
			unique[s] = struct{}{}
		}
		quantumTime := time.Since(start)

		xeb := CrossEntropyFidelity(samples, probs, cfg.Qubits)
		classical := ClassicalEstimate(cfg.Qubits, cfg.Depth)

		quantumMs := float64(quantumTime.Microseconds()) / 1000
		speedup := 0.0
		if quantumMs > 0 {
			speedup = classical.TimeSeconds * 1000 / quantumMs
		}

		results = append(results, outcome{
			Qubits:           cfg.Qubits,
			Depth:            cfg.Depth,
			Gates:            gateCount,
			Shots:            cfg.Shots,
			QuantumTimeMs:    quantumMs,
			ClassicalTimeS:   classical.TimeSeconds,
			Speedup:          speedup,
			XEBFidelity:      xeb,
			UniqueBitstrings: len(unique),
			MemoryGB:         classical.MemoryGB,
		})
	}

	report.Metrics["circuits_tested"] = float64(len(results))
	report.Details["results"] = results

	return report.finish(), nil
}

// randomCircuit builds a brickwork random circuit: per layer, each qubit gets
// a Hadamard with probability 1/2 followed by a random Rz, then CNOTs pair
// nearest neighbors starting at layer%2.
func randomCircuit(qubits, depth int, rng *rand.Rand) (*register.Register, int, error) {
	reg, err := register.New(2, qubits)
	if err != nil {
		return nil, 0, err
	}

	h, err := gates.Hadamard(2)
	if err != nil {
		return nil, 0, err
	}

	gateCount := 0
	for layer := 0; layer < depth; layer++ {
		for q := 0; q < qubits; q++ {
			if rng.Float64() < 0.5 {
				if err := reg.ApplySingle(h, q); err != nil {
					return nil, 0, err
				}
				gateCount++
			}
			theta := rng.Float64() * 2 * math.Pi
			rz, err := gates.Phase(2, theta)
			if err != nil {
				return nil, 0, err
			}
			if err := reg.ApplySingle(rz, q); err != nil {
				return nil, 0, err
			}
			gateCount++
		}

		start := layer % 2
		for q := start; q < qubits-1; q += 2 {
			if err := reg.ApplyControlledShift(q, q+1); err != nil {
				return nil, 0, err
			}
			gateCount++
		}
	}

	return reg, gateCount, nil
}

// CrossEntropyFidelity computes XEB = 2^n * <P(sample)> - 1 over the ideal
// distribution. Zero means indistinguishable from uniform noise, one means
// perfect sampling.
func CrossEntropyFidelity(samples []int, ideal []float64, qubits int) float64 {
	if len(samples) == 0 {
		return 0
	}

	sum := 0.0
	counted := 0
	for _, s := range samples {
		if s >= 0 && s < len(ideal) {
			sum += ideal[s]
			counted++
		}
	}
	if counted == 0 {
		return 0
	}

	avg := sum / float64(counted)
	return math.Pow(2, float64(qubits))*avg - 1
}

// ClassicalCost is the estimated cost of simulating a circuit classically
// with a full state vector.
type ClassicalCost struct {
	StateSize   int     `json:"state_size"`
	MemoryGB    float64 `json:"memory_gb"`
	TotalOps    float64 `json:"total_ops"`
	TimeSeconds float64 `json:"time_seconds"`
}

// ClassicalEstimate models full state vector simulation: 8*2^n FLOPs per
// single-qubit gate, 64*2^n per two-qubit gate, n single and n/2 two-qubit
// gates per layer, at 100 GFLOPS.
func ClassicalEstimate(qubits, depth int) ClassicalCost {
	stateSize := 1 << qubits
	opsPerLayer := float64(qubits*8+(qubits/2)*64) * float64(stateSize)
	totalOps := opsPerLayer * float64(depth)

	return ClassicalCost{
		StateSize:   stateSize,
		MemoryGB:    float64(stateSize) * 16 / 1e9,
		TotalOps:    totalOps,
		TimeSeconds: totalOps / (classicalGFLOPS * 1e9),
	}
}
