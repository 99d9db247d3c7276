// Package results persists experiment and benchmark runs and writes JSON
// artifacts under the data directory.
package results

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Run kinds.
const (
	KindExperiment = "experiment"
	KindBenchmark  = "benchmark"
	KindFactoring  = "factoring"
)

const timeLayout = "2006-01-02 15:04:05"

// Run is a persisted experiment or benchmark execution.
type Run struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	Duration  time.Duration  `json:"duration"`
	Summary   map[string]any `json:"summary"`
}

// Repository handles run persistence.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a run repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "runs").Logger(),
	}
}

// Save persists a run. The payload is msgpack-encoded; the summary is kept
// as JSON for cheap listing. Returns the generated run ID.
func (r *Repository) Save(kind, name string, duration time.Duration, payload any, summary map[string]any) (string, error) {
	id := uuid.New().String()

	blob, err := msgpack.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	if summary == nil {
		summary = map[string]any{}
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO runs (id, kind, name, created_at, duration_ms, payload, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		kind,
		name,
		time.Now().UTC().Format(timeLayout),
		duration.Milliseconds(),
		blob,
		string(summaryJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	r.log.Debug().
		Str("id", id).
		Str("kind", kind).
		Str("name", name).
		Msg("Saved run")

	return id, nil
}

// Get retrieves a run by ID without decoding its payload. Returns nil when
// the run does not exist.
func (r *Repository) Get(id string) (*Run, error) {
	row := r.db.QueryRow(
		`SELECT id, kind, name, created_at, duration_ms, summary FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetPayload retrieves and decodes a run payload into out. Returns false
// when the run does not exist.
func (r *Repository) GetPayload(id string, out any) (bool, error) {
	var blob []byte
	err := r.db.QueryRow(`SELECT payload FROM runs WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get run payload: %w", err)
	}
	if err := msgpack.Unmarshal(blob, out); err != nil {
		return false, fmt.Errorf("failed to decode run payload: %w", err)
	}
	return true, nil
}

// List returns the most recent runs, newest first. A non-empty kind filters
// by kind; limit <= 0 means 100.
func (r *Repository) List(kind string, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, kind, name, created_at, duration_ms, summary FROM runs`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteOlderThan removes runs created before the cutoff and returns the
// number deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM runs WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	if deleted > 0 {
		r.log.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Pruned old runs")
	}
	return deleted, nil
}

// Count returns the total number of stored runs.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		createdAt  string
		durationMs int64
		summary    string
	)
	if err := row.Scan(&run.ID, &run.Kind, &run.Name, &createdAt, &durationMs, &summary); err != nil {
		return nil, err
	}

	run.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	run.Duration = time.Duration(durationMs) * time.Millisecond
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &run, nil
}
