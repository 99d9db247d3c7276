// Package handlers provides HTTP handlers for benchmark operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/benchmarks"
	"github.com/blackroad/qlab/internal/results"
	"github.com/blackroad/qlab/internal/runner"
)

// Handler handles benchmark HTTP requests
type Handler struct {
	registry *benchmarks.Registry
	runner   *runner.Runner
	log      zerolog.Logger
}

// NewHandler creates a new benchmarks handler
func NewHandler(registry *benchmarks.Registry, r *runner.Runner, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		runner:   r,
		log:      log.With().Str("handler", "benchmarks").Logger(),
	}
}

// HandleList handles GET /api/benchmarks
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	names := h.registry.Names()
	entries := make([]entry, 0, len(names))
	for _, name := range names {
		b, err := h.registry.Get(name)
		if err != nil {
			continue
		}
		entries = append(entries, entry{Name: b.Name(), Description: b.Description()})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"benchmarks": entries})
}

// HandleRun handles POST /api/benchmarks/{name}/run
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	seed, _ := strconv.ParseInt(r.URL.Query().Get("seed"), 10, 64)

	outcome, err := h.runner.RunSync(r.Context(), results.KindBenchmark, name, seed)
	if err != nil {
		h.log.Error().Err(err).Str("benchmark", name).Msg("Run failed")
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, outcome)
}

// HandleEnqueue handles POST /api/benchmarks/{name}/enqueue
func (h *Handler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	seed, _ := strconv.ParseInt(r.URL.Query().Get("seed"), 10, 64)

	jobID, err := h.runner.Enqueue(results.KindBenchmark, name, seed)
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
