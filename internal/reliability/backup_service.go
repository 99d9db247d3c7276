package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/events"
)

const archivePrefix = "qlab-backup-"
const archiveTimeLayout = "2006-01-02-150405"

// Uploader is the remote side of the backup service.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
	List(ctx context.Context, prefix string) ([]Object, error)
	Delete(ctx context.Context, key string) error
}

// BackupService archives the results database and artifacts directory and
// ships the archive to S3-compatible storage.
type BackupService struct {
	uploader Uploader
	dataDir  string
	dbPath   string
	keep     int
	bus      *events.Bus
	log      zerolog.Logger
}

// Manifest describes the files inside a backup archive.
type Manifest struct {
	Timestamp time.Time      `json:"timestamp"`
	Files     []ManifestFile `json:"files"`
}

// ManifestFile is one archived file with its checksum.
type ManifestFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupInfo summarizes a remote backup.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
}

// NewBackupService creates the backup service. keep is the number of remote
// backups retained after rotation.
func NewBackupService(uploader Uploader, dataDir, dbPath string, keep int, bus *events.Bus, log zerolog.Logger) *BackupService {
	if keep < 1 {
		keep = 1
	}
	return &BackupService{
		uploader: uploader,
		dataDir:  dataDir,
		dbPath:   dbPath,
		keep:     keep,
		bus:      bus,
		log:      log.With().Str("service", "backup").Logger(),
	}
}

// CreateAndUpload builds a tar.gz of the database and artifacts with a
// checksum manifest, uploads it and rotates old backups.
func (s *BackupService) CreateAndUpload(ctx context.Context) error {
	s.log.Info().Msg("Starting backup")
	start := time.Now()

	staging, err := os.MkdirTemp(s.dataDir, "backup-staging-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	files, err := s.collectFiles()
	if err != nil {
		return err
	}

	manifest := Manifest{Timestamp: time.Now().UTC()}
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		checksum, err := checksumFile(path)
		if err != nil {
			return fmt.Errorf("failed to checksum %s: %w", path, err)
		}
		rel, err := filepath.Rel(s.dataDir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		manifest.Files = append(manifest.Files, ManifestFile{
			Path:      rel,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		})
	}

	manifestPath := filepath.Join(staging, "backup-manifest.json")
	if err := writeManifest(manifestPath, manifest); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	archiveName := archivePrefix + time.Now().UTC().Format(archiveTimeLayout) + ".tar.gz"
	archivePath := filepath.Join(staging, archiveName)
	if err := s.createArchive(archivePath, append(files, manifestPath)); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	if err := s.uploader.Upload(ctx, archiveName, archive); err != nil {
		return fmt.Errorf("failed to upload backup: %w", err)
	}

	if err := s.rotate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	info, _ := os.Stat(archivePath)
	s.log.Info().
		Dur("duration", time.Since(start)).
		Str("archive", archiveName).
		Msg("Backup completed")

	if s.bus != nil {
		size := int64(0)
		if info != nil {
			size = info.Size()
		}
		s.bus.Emit(events.BackupFinished, &events.BackupFinishedData{
			Archive:   archiveName,
			SizeBytes: size,
		})
	}
	return nil
}

// ListBackups returns remote backups, newest first.
func (s *BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.uploader.List(ctx, archivePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]BackupInfo, 0, len(objects))
	for _, obj := range objects {
		if !strings.HasPrefix(obj.Key, archivePrefix) || !strings.HasSuffix(obj.Key, ".tar.gz") {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(obj.Key, archivePrefix), ".tar.gz")
		ts, err := time.Parse(archiveTimeLayout, stamp)
		if err != nil {
			s.log.Warn().Str("key", obj.Key).Msg("Unparseable backup timestamp")
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  obj.Key,
			Timestamp: ts,
			SizeBytes: obj.SizeBytes,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// rotate deletes remote backups beyond the configured keep count.
func (s *BackupService) rotate(ctx context.Context) error {
	backups, err := s.ListBackups(ctx)
	if err != nil {
		return err
	}

	deleted := 0
	for i, backup := range backups {
		if i < s.keep {
			continue
		}
		if err := s.uploader.Delete(ctx, backup.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", backup.Filename).Msg("Failed to delete old backup")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.log.Info().
			Int("deleted", deleted).
			Int("kept", s.keep).
			Msg("Rotated old backups")
	}
	return nil
}

// collectFiles gathers the database file and all artifacts.
func (s *BackupService) collectFiles() ([]string, error) {
	files := []string{}
	if _, err := os.Stat(s.dbPath); err == nil {
		files = append(files, s.dbPath)
	}

	artifactsDir := filepath.Join(s.dataDir, "artifacts")
	entries, err := os.ReadDir(artifactsDir)
	if os.IsNotExist(err) {
		return files, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(artifactsDir, entry.Name()))
		}
	}
	return files, nil
}

func (s *BackupService) createArchive(archivePath string, files []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	for _, path := range files {
		if err := addToArchive(tw, path); err != nil {
			return err
		}
	}
	return nil
}

func addToArchive(tw *tar.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to build tar header for %s: %w", path, err)
	}
	header.Name = filepath.Base(path)

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", path, err)
	}
	if _, err := io.Copy(tw, file); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return nil
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeManifest(path string, manifest Manifest) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(manifest)
}
