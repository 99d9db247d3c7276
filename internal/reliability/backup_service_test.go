package reliability

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad/qlab/internal/events"
)

type fakeUploader struct {
	objects map[string][]byte
	deleted []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (f *fakeUploader) Upload(_ context.Context, key string, body io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeUploader) List(_ context.Context, prefix string) ([]Object, error) {
	var out []Object
	for key, data := range f.objects {
		if len(prefix) == 0 || (len(key) >= len(prefix) && key[:len(prefix)] == prefix) {
			out = append(out, Object{Key: key, SizeBytes: int64(len(data))})
		}
	}
	return out, nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func TestCreateAndUpload(t *testing.T) {
	dataDir := t.TempDir()
	dbPath := filepath.Join(dataDir, "results.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("sqlite payload"), 0o644))

	artifactsDir := filepath.Join(dataDir, "artifacts")
	require.NoError(t, os.MkdirAll(artifactsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artifactsDir, "ghz.json"), []byte("{}"), 0o644))

	uploader := newFakeUploader()
	bus := events.NewBus()

	finished := 0
	bus.Subscribe(events.BackupFinished, func(event *events.Event) { finished++ })

	service := NewBackupService(uploader, dataDir, dbPath, 3, bus, zerolog.Nop())
	require.NoError(t, service.CreateAndUpload(context.Background()))

	require.Len(t, uploader.objects, 1)
	for key, data := range uploader.objects {
		assert.Contains(t, key, archivePrefix)
		assert.NotEmpty(t, data)
	}
	assert.Equal(t, 1, finished)
}

func TestRotateKeepsNewest(t *testing.T) {
	uploader := newFakeUploader()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		name := archivePrefix + base.Add(time.Duration(i)*time.Hour).Format(archiveTimeLayout) + ".tar.gz"
		uploader.objects[name] = []byte("x")
	}

	service := NewBackupService(uploader, t.TempDir(), "missing.db", 2, nil, zerolog.Nop())
	require.NoError(t, service.rotate(context.Background()))

	assert.Len(t, uploader.objects, 2)
	assert.Len(t, uploader.deleted, 3)

	backups, err := service.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.True(t, backups[0].Timestamp.After(backups[1].Timestamp))
}
