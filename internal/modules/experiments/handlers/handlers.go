// Package handlers provides HTTP handlers for experiment operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/experiments"
	"github.com/blackroad/qlab/internal/results"
	"github.com/blackroad/qlab/internal/runner"
)

// Handler handles experiment HTTP requests
type Handler struct {
	registry *experiments.Registry
	runner   *runner.Runner
	log      zerolog.Logger
}

// NewHandler creates a new experiments handler
func NewHandler(registry *experiments.Registry, r *runner.Runner, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		runner:   r,
		log:      log.With().Str("handler", "experiments").Logger(),
	}
}

// HandleList handles GET /api/experiments
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	list := h.registry.List()
	entries := make([]entry, 0, len(list))
	for _, e := range list {
		entries = append(entries, entry{Name: e.Name(), Description: e.Description()})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"experiments": entries})
}

// HandleRun handles POST /api/experiments/{name}/run
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	seed := parseSeed(r)

	outcome, err := h.runner.RunSync(r.Context(), results.KindExperiment, name, seed)
	if err != nil {
		h.log.Error().Err(err).Str("experiment", name).Msg("Run failed")
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, outcome)
}

// HandleEnqueue handles POST /api/experiments/{name}/enqueue
func (h *Handler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	seed := parseSeed(r)

	jobID, err := h.runner.Enqueue(results.KindExperiment, name, seed)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]any{"job_id": jobID})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func parseSeed(r *http.Request) int64 {
	seed, _ := strconv.ParseInt(r.URL.Query().Get("seed"), 10, 64)
	return seed
}
