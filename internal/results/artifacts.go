package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// ArtifactWriter dumps run reports as timestamped JSON files under
// <dataDir>/artifacts.
type ArtifactWriter struct {
	dir string
	log zerolog.Logger
}

// NewArtifactWriter creates the writer and ensures its directory exists.
func NewArtifactWriter(dataDir string, log zerolog.Logger) (*ArtifactWriter, error) {
	dir := filepath.Join(dataDir, "artifacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
	}
	return &ArtifactWriter{
		dir: dir,
		log: log.With().Str("component", "artifacts").Logger(),
	}, nil
}

// Dir returns the artifacts directory.
func (w *ArtifactWriter) Dir() string {
	return w.dir
}

// Write serializes payload as indented JSON to <name>_<timestamp>.json and
// returns the file path.
func (w *ArtifactWriter) Write(name string, payload any) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.json", name, time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(w.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	w.log.Debug().
		Str("path", path).
		Msg("Wrote artifact")

	return path, nil
}

// Prune removes artifacts older than the cutoff and returns the number
// removed.
func (w *ArtifactWriter) Prune(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read artifacts directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(w.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		w.log.Info().
			Int("removed", removed).
			Msg("Pruned old artifacts")
	}
	return removed, nil
}
