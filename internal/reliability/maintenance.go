package reliability

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/database"
)

// MaintenanceJob performs periodic upkeep on the results database:
// WAL checkpoint, VACUUM and a disk space check.
type MaintenanceJob struct {
	db      *database.DB
	dataDir string
	log     zerolog.Logger
}

func NewMaintenanceJob(db *database.DB, dataDir string, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:      db,
		dataDir: dataDir,
		log:     log.With().Str("job", "maintenance").Logger(),
	}
}

// Name returns the job name for the scheduler.
func (j *MaintenanceJob) Name() string {
	return "maintenance"
}

// Run executes the maintenance job.
func (j *MaintenanceJob) Run() error {
	j.log.Info().Msg("Starting maintenance")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := j.db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("results database failed integrity check: %w", err)
	}

	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		// Not critical, the next checkpoint will catch up.
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	before, err := j.db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get database stats: %w", err)
	}

	if err := j.db.Vacuum(); err != nil {
		return fmt.Errorf("failed to vacuum results database: %w", err)
	}

	after, err := j.db.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get database stats: %w", err)
	}

	j.log.Info().
		Int64("size_before_bytes", before.SizeBytes).
		Int64("size_after_bytes", after.SizeBytes).
		Msg("VACUUM completed")

	if err := j.checkDiskSpace(); err != nil {
		return err
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Maintenance completed")

	return nil
}

// checkDiskSpace verifies the data directory's filesystem has headroom.
func (j *MaintenanceJob) checkDiskSpace() error {
	stat := syscall.Statfs_t{}
	if err := syscall.Statfs(j.dataDir, &stat); err != nil {
		return fmt.Errorf("failed to stat filesystem: %w", err)
	}

	availableGB := float64(stat.Bavail*uint64(stat.Bsize)) / 1e9

	if availableGB < 0.5 {
		j.log.Error().
			Float64("available_gb", availableGB).
			Msg("Insufficient disk space")
		return fmt.Errorf("only %.2f GB free on data filesystem", availableGB)
	}

	if availableGB < 5.0 {
		j.log.Warn().
			Float64("available_gb", availableGB).
			Msg("Disk space running low")
	}

	return nil
}
