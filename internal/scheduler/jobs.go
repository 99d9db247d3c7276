package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/events"
	"github.com/blackroad/qlab/internal/results"
	"github.com/blackroad/qlab/internal/runner"
)

// BenchmarkSweepJob runs the full benchmark suite on a schedule so the lab
// accumulates a performance history.
type BenchmarkSweepJob struct {
	runner *runner.Runner
	names  []string
	bus    *events.Bus
	log    zerolog.Logger
}

// NewBenchmarkSweepJob creates the sweep job over the given benchmark names.
func NewBenchmarkSweepJob(r *runner.Runner, names []string, bus *events.Bus, log zerolog.Logger) *BenchmarkSweepJob {
	return &BenchmarkSweepJob{
		runner: r,
		names:  names,
		bus:    bus,
		log:    log.With().Str("job", "benchmark_sweep").Logger(),
	}
}

// Name returns the job name.
func (j *BenchmarkSweepJob) Name() string { return "benchmark_sweep" }

// Run executes every benchmark synchronously, in order.
func (j *BenchmarkSweepJob) Run() error {
	ctx := context.Background()

	runIDs := make([]string, 0, len(j.names))
	for i, name := range j.names {
		outcome, err := j.runner.RunSync(ctx, results.KindBenchmark, name, 0)
		if err != nil {
			return fmt.Errorf("failed to run benchmark %s: %w", name, err)
		}
		runIDs = append(runIDs, outcome.RunID)

		if j.bus != nil {
			j.bus.Emit(events.RunProgress, map[string]any{
				"benchmark": name,
				"completed": i + 1,
				"total":     len(j.names),
			})
		}
	}

	if j.bus != nil {
		j.bus.Emit(events.SweepFinished, &events.SweepFinishedData{
			Benchmarks: j.names,
			RunIDs:     runIDs,
		})
	}
	return nil
}

// BackupJob ships a backup archive to remote storage.
type BackupJob struct {
	backup interface {
		CreateAndUpload(ctx context.Context) error
	}
	log zerolog.Logger
}

// NewBackupJob creates the backup job.
func NewBackupJob(backup interface {
	CreateAndUpload(ctx context.Context) error
}, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backup: backup,
		log:    log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job name.
func (j *BackupJob) Name() string { return "backup" }

// Run creates and uploads one backup.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	return j.backup.CreateAndUpload(ctx)
}

// RetentionJob prunes runs and artifacts older than the retention window.
type RetentionJob struct {
	repo      *results.Repository
	artifacts *results.ArtifactWriter
	days      int
	log       zerolog.Logger
}

// NewRetentionJob creates the retention job. days <= 0 disables pruning.
func NewRetentionJob(repo *results.Repository, artifacts *results.ArtifactWriter, days int, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		repo:      repo,
		artifacts: artifacts,
		days:      days,
		log:       log.With().Str("job", "retention").Logger(),
	}
}

// Name returns the job name.
func (j *RetentionJob) Name() string { return "retention" }

// Run prunes old runs and artifacts.
func (j *RetentionJob) Run() error {
	if j.days <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -j.days)

	deleted, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}

	removed := 0
	if j.artifacts != nil {
		removed, err = j.artifacts.Prune(cutoff)
		if err != nil {
			return fmt.Errorf("failed to prune artifacts: %w", err)
		}
	}

	j.log.Info().
		Int64("runs_deleted", deleted).
		Int("artifacts_removed", removed).
		Msg("Retention pass completed")
	return nil
}
