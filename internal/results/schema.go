package results

import (
	"database/sql"

	"github.com/blackroad/qlab/internal/database"
)

// RunsSchema holds every persisted experiment and benchmark run. The payload
// column is the msgpack-encoded report; summary is a small JSON projection
// for listing without decoding payloads.
const RunsSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    payload BLOB NOT NULL,
    summary TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_kind_name ON runs(kind, name);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// InitSchema ensures the runs table and its indexes exist, atomically.
func InitSchema(db *sql.DB) error {
	return database.WithTransaction(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(RunsSchema)
		return err
	})
}
