// Package runner executes experiment and benchmark runs, either
// synchronously or through an async worker pool, persisting reports and
// emitting lifecycle events.
package runner

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/benchmarks"
	"github.com/blackroad/qlab/internal/events"
	"github.com/blackroad/qlab/internal/experiments"
	"github.com/blackroad/qlab/internal/results"
)

// Job states.
const (
	StateQueued    = "queued"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Status tracks one enqueued job.
type Status struct {
	JobID      string    `json:"job_id"`
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	State      string    `json:"state"`
	RunID      string    `json:"run_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Outcome is the result of a synchronous run.
type Outcome struct {
	RunID  string `json:"run_id"`
	Report any    `json:"report"`
}

// Runner dispatches runs to the registries and persists their reports.
type Runner struct {
	experiments *experiments.Registry
	benchmarks  *benchmarks.Registry
	repo        *results.Repository
	artifacts   *results.ArtifactWriter
	bus         *events.Bus
	log         zerolog.Logger

	jobs    chan job
	wg      sync.WaitGroup
	workers int

	mu       sync.RWMutex
	stopped  bool
	statuses map[string]*Status
}

type job struct {
	id   string
	kind string
	name string
	seed int64
}

// New creates a runner. The artifact writer may be nil to skip JSON dumps.
func New(
	exps *experiments.Registry,
	benches *benchmarks.Registry,
	repo *results.Repository,
	artifacts *results.ArtifactWriter,
	bus *events.Bus,
	workers int,
	log zerolog.Logger,
) *Runner {
	if workers <= 0 {
		workers = 2
	}
	return &Runner{
		experiments: exps,
		benchmarks:  benches,
		repo:        repo,
		artifacts:   artifacts,
		bus:         bus,
		log:         log.With().Str("component", "runner").Logger(),
		jobs:        make(chan job, 64),
		workers:     workers,
		statuses:    make(map[string]*Status),
	}
}

// Start launches the worker goroutines. Workers drain remaining jobs after
// ctx is cancelled only if already dequeued; Stop waits for them.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-r.jobs:
					if !ok {
						return
					}
					r.execute(ctx, j)
				}
			}
		}()
	}
	r.log.Info().
		Int("workers", r.workers).
		Msg("Runner started")
}

// Stop closes the queue and waits for in-flight jobs. Enqueue refuses new
// work once Stop has begun; calling Stop twice is a no-op.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.jobs)
	r.wg.Wait()
	r.log.Info().Msg("Runner stopped")
}

// Enqueue schedules an async run and returns its job ID. The name is
// validated against the matching registry before queueing.
func (r *Runner) Enqueue(kind, name string, seed int64) (string, error) {
	if err := r.validate(kind, name); err != nil {
		return "", err
	}

	id := uuid.New().String()
	status := &Status{
		JobID:      id,
		Kind:       kind,
		Name:       name,
		State:      StateQueued,
		EnqueuedAt: time.Now().UTC(),
	}

	// The stopped check and the channel send share the mutex with Stop, so
	// a send can never race the close of the jobs channel.
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return "", fmt.Errorf("runner is stopped")
	}
	r.statuses[id] = status

	select {
	case r.jobs <- job{id: id, kind: kind, name: name, seed: seed}:
	default:
		delete(r.statuses, id)
		r.mu.Unlock()
		return "", fmt.Errorf("run queue is full")
	}
	r.mu.Unlock()

	r.bus.Emit(events.RunQueued, status)
	return id, nil
}

// RunSync executes a run inline, persists it and returns the stored outcome.
func (r *Runner) RunSync(ctx context.Context, kind, name string, seed int64) (*Outcome, error) {
	if err := r.validate(kind, name); err != nil {
		return nil, err
	}
	return r.run(ctx, kind, name, seed)
}

// Status returns the status of an async job, or nil when unknown.
func (r *Runner) Status(jobID string) *Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, ok := r.statuses[jobID]
	if !ok {
		return nil
	}
	copied := *status
	return &copied
}

// Statuses returns all tracked job statuses.
func (r *Runner) Statuses() []*Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Status, 0, len(r.statuses))
	for _, status := range r.statuses {
		copied := *status
		out = append(out, &copied)
	}
	return out
}

func (r *Runner) validate(kind, name string) error {
	switch kind {
	case results.KindExperiment:
		_, err := r.experiments.Get(name)
		return err
	case results.KindBenchmark:
		_, err := r.benchmarks.Get(name)
		return err
	default:
		return fmt.Errorf("unknown run kind: %s", kind)
	}
}

func (r *Runner) execute(ctx context.Context, j job) {
	r.setState(j.id, func(s *Status) { s.State = StateRunning })
	r.bus.Emit(events.RunStarted, r.Status(j.id))

	outcome, err := r.run(ctx, j.kind, j.name, j.seed)
	if err != nil {
		r.setState(j.id, func(s *Status) {
			s.State = StateFailed
			s.Error = err.Error()
			s.FinishedAt = time.Now().UTC()
		})
		r.bus.Emit(events.RunFailed, r.Status(j.id))
		return
	}

	r.setState(j.id, func(s *Status) {
		s.State = StateCompleted
		s.RunID = outcome.RunID
		s.FinishedAt = time.Now().UTC()
	})
	r.bus.Emit(events.RunCompleted, r.Status(j.id))
}

func (r *Runner) run(ctx context.Context, kind, name string, seed int64) (*Outcome, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var (
		payload  any
		duration time.Duration
		summary  map[string]any
	)

	switch kind {
	case results.KindExperiment:
		report, err := r.experiments.Run(ctx, name, rng)
		if err != nil {
			return nil, err
		}
		payload = report
		duration = report.Duration
		summary = metricsSummary(report.Metrics)
	case results.KindBenchmark:
		report, err := r.benchmarks.Run(ctx, name, rng)
		if err != nil {
			return nil, err
		}
		payload = report
		duration = report.Duration
		summary = metricsSummary(report.Metrics)
	default:
		return nil, fmt.Errorf("unknown run kind: %s", kind)
	}

	runID, err := r.repo.Save(kind, name, duration, payload, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	if r.artifacts != nil {
		if _, err := r.artifacts.Write(name, payload); err != nil {
			r.log.Warn().
				Err(err).
				Str("name", name).
				Msg("Failed to write artifact")
		}
	}

	return &Outcome{RunID: runID, Report: payload}, nil
}

func (r *Runner) setState(jobID string, update func(*Status)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if status, ok := r.statuses[jobID]; ok {
		update(status)
	}
}

func metricsSummary(metrics map[string]float64) map[string]any {
	summary := make(map[string]any, len(metrics))
	for k, v := range metrics {
		summary[k] = v
	}
	return summary
}
