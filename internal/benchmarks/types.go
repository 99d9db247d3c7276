// Package benchmarks contains the performance suites: Grover search,
// random circuit sampling and parallel Monte Carlo.
package benchmarks

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Report is the structured outcome of a single benchmark run.
type Report struct {
	Benchmark string             `json:"benchmark" msgpack:"benchmark"`
	StartedAt time.Time          `json:"started_at" msgpack:"started_at"`
	Duration  time.Duration      `json:"duration" msgpack:"duration"`
	Metrics   map[string]float64 `json:"metrics" msgpack:"metrics"`
	Details   map[string]any     `json:"details,omitempty" msgpack:"details,omitempty"`
}

// Benchmark is a named, repeatable performance suite.
type Benchmark interface {
	Name() string
	Description() string
	Run(ctx context.Context, rng *rand.Rand) (*Report, error)
}

func newReport(name string) *Report {
	return &Report{
		Benchmark: name,
		StartedAt: time.Now().UTC(),
		Metrics:   make(map[string]float64),
		Details:   make(map[string]any),
	}
}

func (r *Report) finish() *Report {
	r.Duration = time.Since(r.StartedAt)
	return r
}

// Registry manages all registered benchmarks.
type Registry struct {
	benchmarks map[string]Benchmark
	mu         sync.RWMutex
	log        zerolog.Logger
}

// NewRegistry creates an empty benchmark registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		benchmarks: make(map[string]Benchmark),
		log:        log.With().Str("component", "benchmark_registry").Logger(),
	}
}

// Register registers a benchmark under its name.
func (r *Registry) Register(b Benchmark) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.benchmarks[b.Name()] = b
	r.log.Debug().
		Str("name", b.Name()).
		Msg("Registered benchmark")
}

// Get retrieves a benchmark by name.
func (r *Registry) Get(name string) (Benchmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.benchmarks[name]
	if !ok {
		return nil, fmt.Errorf("benchmark not found: %s", name)
	}
	return b, nil
}

// Names returns all registered benchmark names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.benchmarks))
	for name := range r.benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run dispatches a benchmark by name.
func (r *Registry) Run(ctx context.Context, name string, rng *rand.Rand) (*Report, error) {
	b, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Str("benchmark", name).
		Msg("Running benchmark")

	report, err := b.Run(ctx, rng)
	if err != nil {
		r.log.Error().
			Err(err).
			Str("benchmark", name).
			Msg("Benchmark failed")
		return nil, fmt.Errorf("failed to run benchmark %s: %w", name, err)
	}

	r.log.Info().
		Str("benchmark", name).
		Dur("duration", report.Duration).
		Msg("Benchmark completed")

	return report, nil
}

// NewPopulatedRegistry creates a registry with the full benchmark suite.
func NewPopulatedRegistry(log zerolog.Logger, monteCarloSamples int, workers int) *Registry {
	registry := NewRegistry(log)

	registry.Register(NewGrover())
	registry.Register(NewSupremacy())
	registry.Register(NewMonteCarlo(monteCarloSamples, workers))

	log.Info().
		Int("benchmarks", len(registry.benchmarks)).
		Msg("Benchmark registry initialized")

	return registry
}
