package experiments

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Registry manages all registered experiments.
type Registry struct {
	experiments map[string]Experiment
	mu          sync.RWMutex
	log         zerolog.Logger
}

// NewRegistry creates an empty experiment registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		experiments: make(map[string]Experiment),
		log:         log.With().Str("component", "experiment_registry").Logger(),
	}
}

// Register registers an experiment under its name.
func (r *Registry) Register(e Experiment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := e.Name()
	r.experiments[name] = e
	r.log.Debug().
		Str("name", name).
		Msg("Registered experiment")
}

// Get retrieves an experiment by name.
func (r *Registry) Get(name string) (Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.experiments[name]
	if !ok {
		return nil, fmt.Errorf("experiment not found: %s", name)
	}
	return e, nil
}

// Names returns all registered experiment names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.experiments))
	for name := range r.experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered experiments.
func (r *Registry) List() []Experiment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Experiment, 0, len(r.experiments))
	for _, name := range r.sortedNamesLocked() {
		list = append(list, r.experiments[name])
	}
	return list
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.experiments))
	for name := range r.experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run dispatches an experiment by name.
func (r *Registry) Run(ctx context.Context, name string, rng *rand.Rand) (*Report, error) {
	e, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Str("experiment", name).
		Msg("Running experiment")

	report, err := e.Run(ctx, rng)
	if err != nil {
		r.log.Error().
			Err(err).
			Str("experiment", name).
			Msg("Experiment failed")
		return nil, fmt.Errorf("failed to run experiment %s: %w", name, err)
	}

	r.log.Info().
		Str("experiment", name).
		Dur("duration", report.Duration).
		Msg("Experiment completed")

	return report, nil
}

// RunAll runs every registered experiment in name order and collects reports.
// A failed experiment aborts the suite.
func (r *Registry) RunAll(ctx context.Context, rng *rand.Rand) ([]*Report, error) {
	names := r.Names()
	reports := make([]*Report, 0, len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := r.Run(ctx, name, rng)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// NewPopulatedRegistry creates a registry with the full experiment suite.
func NewPopulatedRegistry(log zerolog.Logger) *Registry {
	registry := NewRegistry(log)

	registry.Register(NewBasicQudit())
	registry.Register(NewEntangledPair())
	registry.Register(NewConstantComparison())
	registry.Register(NewMagicSquare())
	registry.Register(NewEulerPairs())
	registry.Register(NewPrimeQudits())
	registry.Register(NewGHZ())
	registry.Register(NewPrimeProtocol())
	registry.Register(NewQuquart())
	registry.Register(NewTrinary())

	log.Info().
		Int("experiments", len(registry.experiments)).
		Msg("Experiment registry initialized")

	return registry
}
