// Package service runs searches on behalf of the CLI, the HTTP API and the
// viewer, adding tracing, metrics and run-scoped logging around the engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/logging"
	"github.com/pdrpinto/gridsearch/internal/metrics"
	"github.com/pdrpinto/gridsearch/maze"
	"github.com/pdrpinto/gridsearch/report"
)

const instrumentationName = "github.com/pdrpinto/gridsearch/internal/service"

// Solver runs instrumented searches.
type Solver struct {
	logger   *logging.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	defaults []gridsearch.Option
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithMetrics records every finished run in m.
func WithMetrics(m *metrics.Metrics) SolverOption {
	return func(s *Solver) { s.metrics = m }
}

// WithTracer replaces the global otel tracer.
func WithTracer(tracer trace.Tracer) SolverOption {
	return func(s *Solver) { s.tracer = tracer }
}

// WithSearchOptions sets engine options applied to every run before the
// per-call ones.
func WithSearchOptions(options ...gridsearch.Option) SolverOption {
	return func(s *Solver) { s.defaults = append(s.defaults, options...) }
}

// NewSolver creates a Solver. logger may be nil.
func NewSolver(logger *logging.Logger, opts ...SolverOption) *Solver {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Solver{
		logger: logger.Named("solver"),
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request is one search to run.
type Request struct {
	Maze     *maze.Maze
	Strategy gridsearch.Strategy
	Options  []gridsearch.Option
}

// Solve runs one search inside a "gridsearch.solve" span. Exhausted runs
// return ErrNotFound like gridsearch.Solve does.
func (s *Solver) Solve(ctx context.Context, req Request) (gridsearch.Result, error) {
	if req.Maze == nil {
		return gridsearch.Result{}, fmt.Errorf("%w: no maze", gridsearch.ErrInvalidGrid)
	}
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx, span := s.tracer.Start(ctx, "gridsearch.solve", trace.WithAttributes(
		attribute.String("strategy", req.Strategy.String()),
		attribute.Int("grid.rows", req.Maze.Grid.Height()),
		attribute.Int("grid.cols", req.Maze.Grid.Width()),
	))
	defer span.End()

	options := append(s.options(ctx), req.Options...)
	started := time.Now()
	res, err := req.Maze.Solve(ctx, req.Strategy, options...)
	duration := time.Since(started)

	s.finish(ctx, span, res, err, duration)
	return res, err
}

// Compare runs each strategy on the maze concurrently inside a
// "gridsearch.compare" span.
func (s *Solver) Compare(ctx context.Context, m *maze.Maze, strategies []gridsearch.Strategy) ([]report.Summary, error) {
	jobs := make([]gridsearch.Job, len(strategies))
	for i, strategy := range strategies {
		jobs[i] = gridsearch.Job{Name: strategy.String(), Grid: m.Grid, Start: m.Start, Goal: m.Goal, Strategy: strategy}
	}
	return s.Batch(ctx, "gridsearch.compare", jobs)
}

// Batch runs jobs on the engine worker pool inside a span called name and
// summarizes them. Unsolvable jobs are not an error.
func (s *Solver) Batch(ctx context.Context, name string, jobs []gridsearch.Job) ([]report.Summary, error) {
	results, err := s.SolveAll(ctx, name, jobs)
	return report.Summaries(results), err
}

// SolveAll is Batch without the summaries. options are applied after the
// solver defaults, so they may override the worker count.
func (s *Solver) SolveAll(ctx context.Context, name string, jobs []gridsearch.Job, options ...gridsearch.Option) ([]gridsearch.JobResult, error) {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int("jobs", len(jobs))))
	defer span.End()

	results := gridsearch.SolveAll(ctx, jobs, append(s.options(ctx), options...)...)

	var errs []error
	for _, jr := range results {
		if s.metrics != nil {
			s.metrics.ObserveResult(jr.Result, jr.Duration)
		}
		if jr.Err != nil && !errors.Is(jr.Err, gridsearch.ErrNotFound) {
			errs = append(errs, fmt.Errorf("%s: %w", jobName(jr.Job), jr.Err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch failed")
		s.logger.Warn(ctx, "batch finished with errors", zap.Int("jobs", len(jobs)), zap.Int("failed", len(errs)))
	} else {
		s.logger.Info(ctx, "batch finished", zap.Int("jobs", len(jobs)))
	}
	return results, err
}

// Observe records a run that was driven elsewhere, such as a stepping session.
func (s *Solver) Observe(ctx context.Context, res gridsearch.Result, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveResult(res, duration)
	}
	s.logger.Info(ctx, "search finished",
		zap.Stringer("strategy", res.Strategy),
		zap.Stringer("status", res.Status),
		zap.Int("explored", res.ExploredCount),
		zap.Int("path_length", res.Len()),
	)
}

// options returns the engine options every run gets, with an engine logger
// that carries the correlation fields of ctx.
func (s *Solver) options(ctx context.Context) []gridsearch.Option {
	engineLogger := s.logger.Underlying().With(logging.ContextFields(ctx)...)
	return append(append([]gridsearch.Option(nil), s.defaults...), gridsearch.WithLogger(engineLogger))
}

func (s *Solver) finish(ctx context.Context, span trace.Span, res gridsearch.Result, err error, duration time.Duration) {
	span.SetAttributes(
		attribute.String("status", res.Status.String()),
		attribute.Int("explored", res.ExploredCount),
		attribute.Int("path_length", res.Len()),
	)
	if s.metrics != nil && res.Status.Terminal() {
		s.metrics.ObserveResult(res, duration)
	}

	switch {
	case err == nil:
		s.logger.Info(ctx, "search completed",
			zap.Stringer("strategy", res.Strategy),
			zap.Int("explored", res.ExploredCount),
			zap.Int("path_length", res.Len()),
			zap.Duration("duration", duration),
		)
	case errors.Is(err, gridsearch.ErrNotFound):
		s.logger.Info(ctx, "search found no path",
			zap.Stringer("strategy", res.Strategy),
			zap.Int("explored", res.ExploredCount),
		)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn(ctx, "search failed", zap.Stringer("strategy", res.Strategy), zap.Error(err))
	}
}

func jobName(job gridsearch.Job) string {
	if job.Name != "" {
		return job.Name
	}
	return job.Strategy.String()
}
