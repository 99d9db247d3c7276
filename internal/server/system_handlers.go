package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/benchmarks"
	"github.com/blackroad/qlab/internal/database"
	"github.com/blackroad/qlab/internal/results"
)

var startTime = time.Now()

// SystemHandlers serves system and database status endpoints.
type SystemHandlers struct {
	log  zerolog.Logger
	db   *database.DB
	repo *results.Repository
}

func NewSystemHandlers(log zerolog.Logger, db *database.DB, repo *results.Repository) *SystemHandlers {
	return &SystemHandlers{
		log:  log.With().Str("handler", "system").Logger(),
		db:   db,
		repo: repo,
	}
}

// HandleInfo returns host and process information.
func (h *SystemHandlers) HandleInfo(w http.ResponseWriter, r *http.Request) {
	host, err := benchmarks.CollectHostInfo()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to collect host info")
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	info := map[string]any{
		"go_version":     runtime.Version(),
		"goroutines":     runtime.NumGoroutine(),
		"alloc_bytes":    memStats.Alloc,
		"uptime_seconds": int64(time.Since(startTime).Seconds()),
	}
	if host != nil {
		info["host"] = host
	}

	h.writeJSON(w, http.StatusOK, info)
}

// HandleDBStats returns database size and run counts.
func (h *SystemHandlers) HandleDBStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get database stats"})
		return
	}

	count, err := h.repo.Count()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count runs")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to count runs"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"size_bytes":     stats.SizeBytes,
		"wal_size_bytes": stats.WALSizeBytes,
		"page_count":     stats.PageCount,
		"page_size":      stats.PageSize,
		"runs":           count,
	})
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
