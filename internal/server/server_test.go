package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackroad/qlab/internal/benchmarks"
	"github.com/blackroad/qlab/internal/config"
	"github.com/blackroad/qlab/internal/database"
	"github.com/blackroad/qlab/internal/events"
	"github.com/blackroad/qlab/internal/experiments"
	"github.com/blackroad/qlab/internal/results"
	"github.com/blackroad/qlab/internal/runner"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "results.db"),
		Profile: database.ProfileCache,
		Name:    "results",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, results.InitSchema(db.Conn()))

	log := zerolog.Nop()
	repo := results.NewRepository(db.Conn(), log)
	bus := events.NewBus()
	exps := experiments.NewPopulatedRegistry(log)
	benches := benchmarks.NewPopulatedRegistry(log, 10_000, 2)
	run := runner.New(exps, benches, repo, nil, bus, 1, log)

	return New(Config{
		Log:         log,
		Config:      &config.Config{Port: 0, DevMode: true},
		DB:          db,
		Repo:        repo,
		Runner:      run,
		Experiments: exps,
		Benchmarks:  benches,
		Bus:         bus,
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListExperiments(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/experiments", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Experiments []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"experiments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Len(t, payload.Experiments, 10)
}

func TestRunExperimentEndToEnd(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/experiments/trinary/run?seed=42", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var outcome struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	require.NotEmpty(t, outcome.RunID)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+outcome.RunID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRunUnknownExperiment(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/experiments/nope/run", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFactorEndpoint(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/factoring/factor?n=15&seed=42", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RunID  string `json:"run_id"`
		Result struct {
			Factors [2]int `json:"factors"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, [2]int{3, 5}, resp.Result.Factors)
	assert.NotEmpty(t, resp.RunID)
}

func TestSystemEndpoints(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Contains(t, info, "go_version")

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/system/db", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Contains(t, stats, "runs")
}

func TestEventsStreamDeliversRunEvents(t *testing.T) {
	s := testServer(t)

	bus := s.cfg.Bus
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events/stream?types=RunCompleted", nil)

	ctx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Router().ServeHTTP(rec, req)
	}()

	// Give the handler time to subscribe before emitting.
	time.Sleep(100 * time.Millisecond)
	bus.Emit(events.RunCompleted, map[string]string{"run_id": "abc"})
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, "event: RunCompleted")
	assert.Contains(t, body, `"run_id":"abc"`)
}
