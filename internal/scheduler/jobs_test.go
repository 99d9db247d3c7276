package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad/qlab/internal/database"
	"github.com/blackroad/qlab/internal/results"
)

type fakeBackup struct {
	calls int
	err   error
}

func (f *fakeBackup) CreateAndUpload(_ context.Context) error {
	f.calls++
	return f.err
}

func TestBackupJob(t *testing.T) {
	backup := &fakeBackup{}
	job := NewBackupJob(backup, zerolog.Nop())

	assert.Equal(t, "backup", job.Name())
	require.NoError(t, job.Run())
	assert.Equal(t, 1, backup.calls)

	backup.err = errors.New("bucket unreachable")
	assert.Error(t, job.Run())
}

func TestRetentionJobPrunesOldRuns(t *testing.T) {
	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "results.db"),
		Profile: database.ProfileStandard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, results.InitSchema(db.Conn()))

	repo := results.NewRepository(db.Conn(), zerolog.Nop())
	_, err = repo.Save(results.KindExperiment, "ghz", time.Millisecond, map[string]any{}, nil)
	require.NoError(t, err)

	// Retention window of 30 days keeps a fresh run.
	job := NewRetentionJob(repo, nil, 30, zerolog.Nop())
	require.NoError(t, job.Run())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Disabled retention is a no-op.
	disabled := NewRetentionJob(repo, nil, 0, zerolog.Nop())
	require.NoError(t, disabled.Run())
}

func TestSchedulerEntries(t *testing.T) {
	s := New(zerolog.Nop())
	assert.Empty(t, s.Entries())

	backup := &fakeBackup{}
	require.NoError(t, s.AddJob("0 0 4 * * *", NewBackupJob(backup, zerolog.Nop())))

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "backup", entries[0].Name)
	assert.Equal(t, "0 0 4 * * *", entries[0].Schedule)

	// A malformed schedule is rejected and not recorded.
	assert.Error(t, s.AddJob("not a schedule", NewBackupJob(backup, zerolog.Nop())))
	assert.Len(t, s.Entries(), 1)
}

func TestSchedulerRunNow(t *testing.T) {
	s := New(zerolog.Nop())
	backup := &fakeBackup{}

	require.NoError(t, s.RunNow(NewBackupJob(backup, zerolog.Nop())))
	assert.Equal(t, 1, backup.calls)
}
