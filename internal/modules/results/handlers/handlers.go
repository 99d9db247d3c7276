// Package handlers provides HTTP handlers for stored runs and async jobs.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/results"
	"github.com/blackroad/qlab/internal/runner"
)

// Handler handles run and job HTTP requests
type Handler struct {
	repo   *results.Repository
	runner *runner.Runner
	log    zerolog.Logger
}

// NewHandler creates a new results handler
func NewHandler(repo *results.Repository, r *runner.Runner, log zerolog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		runner: r,
		log:    log.With().Str("handler", "results").Logger(),
	}
}

// HandleListRuns handles GET /api/runs?kind=benchmark&limit=20
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.repo.List(kind, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// HandleGetRun handles GET /api/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.repo.Get(id)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	if run == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]any{"error": "run not found"})
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleGetRunPayload handles GET /api/runs/{id}/payload
func (h *Handler) HandleGetRunPayload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload map[string]any
	found, err := h.repo.GetPayload(id, &payload)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	if !found {
		h.writeJSON(w, http.StatusNotFound, map[string]any{"error": "run not found"})
		return
	}

	h.writeJSON(w, http.StatusOK, payload)
}

// HandleListJobs handles GET /api/jobs
func (h *Handler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"jobs": h.runner.Statuses()})
}

// HandleGetJob handles GET /api/jobs/{id}
func (h *Handler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status := h.runner.Status(id)
	if status == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]any{"error": "job not found"})
		return
	}

	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
