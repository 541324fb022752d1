// Package server provides the HTTP API: one-shot solves and stepping
// sessions that expose each expansion for a visualizer.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/config"
	"github.com/pdrpinto/gridsearch/internal/logging"
	"github.com/pdrpinto/gridsearch/internal/metrics"
	"github.com/pdrpinto/gridsearch/internal/service"
	"github.com/pdrpinto/gridsearch/maze"
	"github.com/pdrpinto/gridsearch/render"
)

const maxStepsPerRequest = 10000

// Server provides HTTP endpoints for gridsearch.
type Server struct {
	echo     *echo.Echo
	solver   *service.Solver
	metrics  *metrics.Metrics
	logger   *logging.Logger
	config   *config.Config
	sessions *sessionStore
}

// NewServer creates a new HTTP server. gatherer backs GET /metrics and may
// be nil to leave the route out.
func NewServer(
	cfg *config.Config,
	solver *service.Solver,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *logging.Logger,
) (*Server, error) {
	if solver == nil {
		return nil, fmt.Errorf("solver cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = config.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		solver:   solver,
		metrics:  m,
		logger:   logger.Named("http"),
		config:   cfg,
		sessions: newSessionStore(cfg.Server.MaxSessions),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLog)
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	s.registerRoutes(gatherer)
	return s, nil
}

func (s *Server) requestLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		status := c.Response().Status

		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).Inc()
		}
		s.logger.Info(c.Request().Context(), "http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	s.echo.GET("/health", s.handleHealth)
	if gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/solve", s.handleSolve)
	v1.POST("/sessions", s.handleCreateSession)
	v1.GET("/sessions/:id", s.handleGetSession)
	v1.POST("/sessions/:id/step", s.handleStep)
	v1.GET("/sessions/:id/render", s.handleRender)
	v1.DELETE("/sessions/:id", s.handleDeleteSession)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Sessions: s.sessions.len()})
}

func (s *Server) strategy(name string) (gridsearch.Strategy, error) {
	if name == "" {
		return s.config.Search.DefaultStrategy(), nil
	}
	return gridsearch.ParseStrategy(name)
}

func (s *Server) handleSolve(c echo.Context) error {
	var req SolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Maze == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "maze field is required")
	}
	strategy, err := s.strategy(req.Strategy)
	if err != nil {
		return badRequest(err)
	}
	m, err := maze.ParseString(req.Maze)
	if err == nil {
		err = s.checkSize(m.Grid.Height(), m.Grid.Width())
	}
	if err != nil {
		return badRequest(err)
	}

	res, err := s.solver.Solve(c.Request().Context(), service.Request{Maze: m, Strategy: strategy})
	switch {
	case err == nil, errors.Is(err, gridsearch.ErrNotFound):
		return c.JSON(http.StatusOK, res)
	case errors.Is(err, gridsearch.ErrExpansionLimit):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, gridsearch.ErrCancelled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search cancelled")
	}
	return badRequest(err)
}

func (s *Server) handleCreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Maze != "" && req.Generate != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "maze and generate are exclusive")
	}
	strategy, err := s.strategy(req.Strategy)
	if err != nil {
		return badRequest(err)
	}

	var m *maze.Maze
	if req.Maze != "" {
		m, err = maze.ParseString(req.Maze)
		if err == nil {
			err = s.checkSize(m.Grid.Height(), m.Grid.Width())
		}
	} else {
		var opts maze.GenerateOptions
		if req.Generate != nil {
			opts = *req.Generate
		}
		height, width := opts.Height, opts.Width
		if height == 0 {
			height = maze.DefaultHeight
		}
		if width == 0 {
			width = maze.DefaultWidth
		}
		if err = s.checkSize(height, width); err == nil {
			m, err = maze.Generate(opts)
		}
	}
	if err != nil {
		return badRequest(err)
	}

	stepper, err := gridsearch.NewStepper(m.Grid, m.Start, m.Goal, strategy, s.config.Search.Options()...)
	if err != nil {
		return badRequest(err)
	}
	sess, err := s.sessions.add(m, strategy, stepper)
	if err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	ctx := logging.WithSessionID(c.Request().Context(), sess.id)
	s.logger.Info(ctx, "session created", zap.Stringer("strategy", strategy))
	return c.JSON(http.StatusCreated, describe(sess))
}

// checkSize rejects mazes above server.max_cells. Negative sizes are left
// to the maze package.
func (s *Server) checkSize(height, width int) error {
	limit := s.config.Server.MaxCells
	if height > 0 && width > 0 && (height > limit || width > limit/height) {
		return fmt.Errorf("%dx%d maze exceeds %d cells", height, width, limit)
	}
	return nil
}

func describe(sess *session) SessionResponse {
	grid := sess.maze.Grid
	walls := make([]gridsearch.State, 0, grid.Height()*grid.Width()-grid.FreeCells())
	for i := 0; i < grid.Height(); i++ {
		for j := 0; j < grid.Width(); j++ {
			if state := (gridsearch.State{Row: i, Col: j}); grid.IsWall(state) {
				walls = append(walls, state)
			}
		}
	}
	return SessionResponse{
		ID:       sess.id,
		Strategy: sess.strategy,
		Width:    grid.Width(),
		Height:   grid.Height(),
		Start:    sess.maze.Start,
		Goal:     sess.maze.Goal,
		Walls:    walls,
		Maze:     sess.maze.String(),
	}
}

func (s *Server) handleGetSession(c echo.Context) error {
	sess, err := s.sessions.get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, describe(sess))
}

// handleStep advances the session by ?count expansions, default 1.
func (s *Server) handleStep(c echo.Context) error {
	sess, err := s.sessions.get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	count := 1
	if raw := c.QueryParam("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil || count < 1 || count > maxStepsPerRequest {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %d", maxStepsPerRequest))
		}
	}

	// A dropped client must not cancel the whole run.
	ctx := logging.WithSessionID(context.WithoutCancel(c.Request().Context()), sess.id)
	snap, done, err := sess.step(ctx, count)
	if err != nil && !errors.Is(err, gridsearch.ErrCancelled) {
		return badRequest(err)
	}
	if done {
		res, _ := sess.result()
		s.solver.Observe(ctx, res, time.Since(sess.created))
	}
	return c.JSON(http.StatusOK, snap)
}

func (s *Server) handleRender(c echo.Context) error {
	sess, err := s.sessions.get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	opts := render.Options{ShowSolution: true, ShowExplored: c.QueryParam("explored") != "false"}
	marks := render.SnapshotMarks(sess.snapshot())

	switch strings.ToLower(c.QueryParam("format")) {
	case "", "text":
		return c.String(http.StatusOK, render.TextString(sess.maze, marks, opts))
	case "png":
		var buf bytes.Buffer
		if err := render.PNG(&buf, sess.maze, marks, render.ImageOptions{Options: opts}); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "image/png", buf.Bytes())
	}
	return echo.NewHTTPError(http.StatusBadRequest, "format must be text or png")
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	sess, err := s.sessions.remove(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	sess.close()
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	s.logger.Info(logging.WithSessionID(c.Request().Context(), sess.id), "session closed")
	return c.NoContent(http.StatusNoContent)
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server and cancels open sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	err := s.echo.Shutdown(ctx)
	if n := s.sessions.closeAll(); n > 0 && s.metrics != nil {
		s.metrics.ActiveSessions.Sub(float64(n))
	}
	return err
}
