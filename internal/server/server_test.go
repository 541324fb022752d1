package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/config"
	"github.com/pdrpinto/gridsearch/internal/logging"
	"github.com/pdrpinto/gridsearch/internal/metrics"
	"github.com/pdrpinto/gridsearch/internal/service"
	"github.com/pdrpinto/gridsearch/maze"
)

const smallMaze = "A  \n # \n  B\n"

type testServer struct {
	*Server
	metrics *metrics.Metrics
	logger  *logging.TestLogger
}

func setupTestServer(t *testing.T, mutate ...func(*config.Config)) testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Search.Strategy = "bfs"
	for _, fn := range mutate {
		fn(cfg)
	}
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	logger := logging.NewTestLogger()
	solver := service.NewSolver(logger.Logger, service.WithMetrics(m))

	server, err := NewServer(cfg, solver, m, reg, logger.Logger)
	require.NoError(t, err)
	return testServer{Server: server, metrics: m, logger: logger}
}

func (s testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewServer(t *testing.T) {
	solver := service.NewSolver(nil)

	_, err := NewServer(nil, nil, nil, nil, logging.NewNop())
	assert.ErrorContains(t, err, "solver cannot be nil")

	_, err = NewServer(nil, solver, nil, nil, nil)
	assert.ErrorContains(t, err, "logger is required")

	server, err := NewServer(nil, solver, nil, nil, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, server.config.Server.Port)
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t)
	rec := server.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Zero(t, resp.Sessions)
}

func TestHandleSolve(t *testing.T) {
	server := setupTestServer(t)

	t.Run("solved with default strategy", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/api/v1/solve", SolveRequest{Maze: smallMaze})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		res := decode[gridsearch.Result](t, rec)
		assert.Equal(t, gridsearch.StatusSolved, res.Status)
		assert.Equal(t, gridsearch.BreadthFirst, res.Strategy)
		assert.Len(t, res.Path, 5)
		assert.Equal(t, 4, res.Cost)
		assert.Equal(t, 8, res.ExploredCount)
	})

	t.Run("not found is still ok", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/api/v1/solve", SolveRequest{Maze: "A#B", Strategy: "astar"})
		require.Equal(t, http.StatusOK, rec.Code)
		res := decode[gridsearch.Result](t, rec)
		assert.Equal(t, gridsearch.StatusNotFound, res.Status)
		assert.Empty(t, res.Path)
	})

	tests := []struct {
		name     string
		body     any
		wantCode int
		wantMsg  string
	}{
		{"missing maze", SolveRequest{}, http.StatusBadRequest, "maze field is required"},
		{"bad strategy", SolveRequest{Maze: smallMaze, Strategy: "dijkstra"}, http.StatusBadRequest, "unknown strategy"},
		{"no goal", SolveRequest{Maze: "A  "}, http.StatusBadRequest, "no goal"},
		{"duplicate start", SolveRequest{Maze: "AAB"}, http.StatusBadRequest, "exactly one"},
		{"not json", "[", http.StatusBadRequest, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := server.do(t, http.MethodPost, "/api/v1/solve", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestHandleSolve_ExpansionLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Search.MaxExpansions = 2
	logger := logging.NewTestLogger()
	solver := service.NewSolver(logger.Logger, service.WithSearchOptions(cfg.Search.Options()...))
	server, err := NewServer(cfg, solver, nil, nil, logger.Logger)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", strings.NewReader(`{"maze":"A  \n # \n  B\n"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "expansion limit")

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "no gatherer, no metrics route")
}

func createSession(t *testing.T, server testServer, req CreateSessionRequest) SessionResponse {
	t.Helper()
	rec := server.do(t, http.MethodPost, "/api/v1/sessions", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[SessionResponse](t, rec)
}

func TestSessionLifecycle(t *testing.T) {
	server := setupTestServer(t)

	sess := createSession(t, server, CreateSessionRequest{Maze: smallMaze, Strategy: "bfs"})
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 3, sess.Width)
	assert.Equal(t, 3, sess.Height)
	assert.Equal(t, gridsearch.State{Row: 2, Col: 2}, sess.Goal)
	assert.Equal(t, []gridsearch.State{{Row: 1, Col: 1}}, sess.Walls)
	assert.Equal(t, "A  \n # \n  B\n", sess.Maze)
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.ActiveSessions))

	base := "/api/v1/sessions/" + sess.ID

	rec := server.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess.ID, decode[SessionResponse](t, rec).ID)

	rec = server.do(t, http.MethodPost, base+"/step", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[gridsearch.StepSnapshot](t, rec)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, gridsearch.State{}, snap.Current)
	assert.Equal(t, gridsearch.StatusRunning, snap.Status)
	assert.ElementsMatch(t, []gridsearch.State{{Row: 1, Col: 0}, {Row: 0, Col: 1}}, snap.Frontier)

	rec = server.do(t, http.MethodGet, base+"/render", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A  \n █ \n  B\n", rec.Body.String())

	rec = server.do(t, http.MethodPost, base+"/step?count=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[gridsearch.StepSnapshot](t, rec)
	assert.True(t, snap.Found())
	assert.Equal(t, 8, snap.Index)
	assert.Len(t, snap.Path, 5)
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.SearchesTotal.WithLabelValues("bfs", "solved")))

	rec = server.do(t, http.MethodPost, base+"/step", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snap, decode[gridsearch.StepSnapshot](t, rec), "terminal snapshot repeats")
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.SearchesTotal.WithLabelValues("bfs", "solved")), "observed once")

	rec = server.do(t, http.MethodGet, base+"/render?explored=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A  \n*█ \n**B\n", rec.Body.String())

	rec = server.do(t, http.MethodGet, base+"/render?format=png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 150, img.Bounds().Dx())

	rec = server.do(t, http.MethodGet, base+"/render?format=gif", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, testutil.ToFloat64(server.metrics.ActiveSessions))

	for _, method := range []string{http.MethodDelete, http.MethodGet} {
		rec = server.do(t, method, base, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	rec = server.do(t, http.MethodPost, base+"/step", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSession_Generate(t *testing.T) {
	server := setupTestServer(t)

	sess := createSession(t, server, CreateSessionRequest{
		Generate: &maze.GenerateOptions{Width: 12, Height: 8, Clusters: 2, Steps: 20, Density: 0.5, Seed: 9},
		Strategy: "greedy",
	})
	assert.Equal(t, 12, sess.Width)
	assert.Equal(t, 8, sess.Height)
	assert.Equal(t, gridsearch.Greedy, sess.Strategy)
	assert.NotEqual(t, sess.Start, sess.Goal)

	defaults := createSession(t, server, CreateSessionRequest{})
	assert.Equal(t, maze.DefaultWidth, defaults.Width)
	assert.Equal(t, gridsearch.BreadthFirst, defaults.Strategy)

	rec := server.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Maze: smallMaze, Generate: &maze.GenerateOptions{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Generate: &maze.GenerateOptions{Density: 2}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSession_Oversized(t *testing.T) {
	server := setupTestServer(t)

	for _, opts := range []maze.GenerateOptions{
		{Width: 100000, Height: 100000, Clusters: 1000000, Steps: 1000000},
		{Width: 1 << 32, Height: 1 << 32},
		{Width: 2048, Height: 1024},
		{Clusters: 1000000, Steps: 1000000},
	} {
		rec := server.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Generate: &opts})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%+v", opts)
	}
	assert.Zero(t, server.sessions.len())

	small := setupTestServer(t, func(cfg *config.Config) { cfg.Server.MaxCells = 9 })
	createSession(t, small, CreateSessionRequest{Maze: smallMaze})
	rec := small.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "default generate size")
	assert.Contains(t, rec.Body.String(), "exceeds 9 cells")
	rec = small.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Maze: "A    \n    B\n"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSolve_Limits(t *testing.T) {
	server := setupTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxCells = 9
		cfg.Server.BodyLimit = "1K"
	})

	rec := server.do(t, http.MethodPost, "/api/v1/solve", SolveRequest{Maze: smallMaze})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPost, "/api/v1/solve", SolveRequest{Maze: "A    \n    B\n"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(t, http.MethodPost, "/api/v1/solve", SolveRequest{Maze: "A" + strings.Repeat(" ", 2048) + "B\n"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateSession_Limit(t *testing.T) {
	server := setupTestServer(t, func(cfg *config.Config) { cfg.Server.MaxSessions = 2 })

	first := createSession(t, server, CreateSessionRequest{Maze: smallMaze})
	createSession(t, server, CreateSessionRequest{Maze: smallMaze})

	rec := server.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Maze: smallMaze})
	assert.Equal(t, http.StatusConflict, rec.Code)

	server.do(t, http.MethodDelete, "/api/v1/sessions/"+first.ID, nil)
	createSession(t, server, CreateSessionRequest{Maze: smallMaze})
}

func TestHandleStep_BadCount(t *testing.T) {
	server := setupTestServer(t)
	sess := createSession(t, server, CreateSessionRequest{Maze: smallMaze})

	for _, count := range []string{"0", "-3", "x", fmt.Sprint(maxStepsPerRequest + 1)} {
		rec := server.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/step?count="+count, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, count)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t)
	server.do(t, http.MethodPost, "/api/v1/solve", SolveRequest{Maze: smallMaze})

	rec := server.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `gridsearch_searches_total{status="solved",strategy="bfs"} 1`)
	assert.Contains(t, body, `gridsearch_http_requests_total{code="200",method="POST",route="/api/v1/solve"} 1`)
}

func TestRequestLogging(t *testing.T) {
	server := setupTestServer(t)
	server.do(t, http.MethodGet, "/health", nil)

	entries := server.logger.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, int64(200), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestShutdown(t *testing.T) {
	server := setupTestServer(t)
	createSession(t, server, CreateSessionRequest{Maze: smallMaze})
	createSession(t, server, CreateSessionRequest{Maze: smallMaze})

	require.NoError(t, server.Shutdown(context.Background()))
	assert.Zero(t, server.sessions.len())
	assert.Zero(t, testutil.ToFloat64(server.metrics.ActiveSessions))
}
