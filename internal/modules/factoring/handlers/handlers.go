// Package handlers provides HTTP handlers for factoring operations.
package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/factoring"
	"github.com/blackroad/qlab/internal/results"
)

// Handler handles factoring HTTP requests
type Handler struct {
	repo *results.Repository
	log  zerolog.Logger
}

// NewHandler creates a new factoring handler
func NewHandler(repo *results.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "factoring").Logger(),
	}
}

// HandleFactor handles POST /api/factoring/factor?n=15&seed=42
func (h *Handler) HandleFactor(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 4 {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "n must be an integer >= 4"})
		return
	}

	seed, _ := strconv.ParseInt(r.URL.Query().Get("seed"), 10, 64)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	result, err := factoring.Factor(n, rng, 50)
	if err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}

	runID, err := h.repo.Save(results.KindFactoring, strconv.Itoa(n), result.Duration, result, map[string]any{
		"n":       n,
		"factors": result.Factors,
	})
	if err != nil {
		h.log.Error().Err(err).Int("n", n).Msg("Failed to persist factoring run")
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"run_id": runID,
		"result": result,
	})
}

// HandleTrialDivision handles GET /api/factoring/trial?n=1155
func (h *Handler) HandleTrialDivision(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 2 {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "n must be an integer >= 2"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"n":       n,
		"factors": factoring.TrialDivision(n),
		"prime":   factoring.IsPrime(n),
	})
}

// HandleOrder handles GET /api/factoring/order?a=2&n=15
func (h *Handler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	a, errA := strconv.Atoi(r.URL.Query().Get("a"))
	n, errN := strconv.Atoi(r.URL.Query().Get("n"))
	if errA != nil || errN != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "a and n must be integers"})
		return
	}

	order, err := factoring.Order(a, n)
	if err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"a": a, "n": n, "order": order})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
