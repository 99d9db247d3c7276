// Package experiments contains the named qudit demonstrations exposed by the
// lab. Each experiment is pure apart from its injected RNG and returns a
// structured report suitable for persistence and streaming.
package experiments

import (
	"context"
	"math/rand"
	"time"
)

// Report is the structured outcome of a single experiment run.
type Report struct {
	Experiment string             `json:"experiment" msgpack:"experiment"`
	StartedAt  time.Time          `json:"started_at" msgpack:"started_at"`
	Duration   time.Duration      `json:"duration" msgpack:"duration"`
	Metrics    map[string]float64 `json:"metrics" msgpack:"metrics"`
	Details    map[string]any     `json:"details,omitempty" msgpack:"details,omitempty"`
}

// Experiment is a named, repeatable qudit demonstration.
type Experiment interface {
	// Name is the stable identifier used for dispatch and persistence.
	Name() string
	// Description is a one-line human summary.
	Description() string
	// Run executes the experiment. Randomness comes only from rng so runs
	// are reproducible under a fixed seed.
	Run(ctx context.Context, rng *rand.Rand) (*Report, error)
}

func newReport(name string) *Report {
	return &Report{
		Experiment: name,
		StartedAt:  time.Now().UTC(),
		Metrics:    make(map[string]float64),
		Details:    make(map[string]any),
	}
}

func (r *Report) finish() *Report {
	r.Duration = time.Since(r.StartedAt)
	return r
}
