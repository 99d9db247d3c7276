package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad/qlab/internal/benchmarks"
	"github.com/blackroad/qlab/internal/database"
	"github.com/blackroad/qlab/internal/events"
	"github.com/blackroad/qlab/internal/experiments"
	"github.com/blackroad/qlab/internal/results"
)

func testRunner(t *testing.T) (*Runner, *results.Repository, *events.Bus) {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "results.db"),
		Profile: database.ProfileStandard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, results.InitSchema(db.Conn()))

	repo := results.NewRepository(db.Conn(), zerolog.Nop())
	bus := events.NewBus()

	r := New(
		experiments.NewPopulatedRegistry(zerolog.Nop()),
		benchmarks.NewPopulatedRegistry(zerolog.Nop(), 10_000, 2),
		repo,
		nil,
		bus,
		2,
		zerolog.Nop(),
	)
	return r, repo, bus
}

func TestRunSyncPersistsReport(t *testing.T) {
	r, repo, _ := testRunner(t)

	outcome, err := r.RunSync(context.Background(), results.KindExperiment, "trinary", 42)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.RunID)

	run, err := repo.Get(outcome.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "trinary", run.Name)
	assert.Equal(t, results.KindExperiment, run.Kind)
}

func TestRunSyncUnknownName(t *testing.T) {
	r, _, _ := testRunner(t)

	_, err := r.RunSync(context.Background(), results.KindExperiment, "nope", 0)
	assert.Error(t, err)

	_, err = r.RunSync(context.Background(), "bogus_kind", "trinary", 0)
	assert.Error(t, err)
}

func TestEnqueueLifecycle(t *testing.T) {
	r, _, bus := testRunner(t)

	completed := make(chan *events.Event, 1)
	bus.Subscribe(events.RunCompleted, func(event *events.Event) {
		select {
		case completed <- event:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	jobID, err := r.Enqueue(results.KindExperiment, "ghz", 42)
	require.NoError(t, err)

	select {
	case <-completed:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for run completion")
	}

	status := r.Status(jobID)
	require.NotNil(t, status)
	assert.Equal(t, StateCompleted, status.State)
	assert.NotEmpty(t, status.RunID)
	assert.Empty(t, status.Error)
}

func TestEnqueueAfterStopReturnsError(t *testing.T) {
	r, _, _ := testRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)
	r.Stop()

	_, err := r.Enqueue(results.KindExperiment, "trinary", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped")

	// Stop is idempotent.
	r.Stop()
}

func TestEnqueueRejectsUnknown(t *testing.T) {
	r, _, _ := testRunner(t)

	_, err := r.Enqueue(results.KindBenchmark, "unknown_bench", 0)
	assert.Error(t, err)

	assert.Nil(t, r.Status("missing-job"))
}
