package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zapcore"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/logging"
	"github.com/pdrpinto/gridsearch/internal/metrics"
	"github.com/pdrpinto/gridsearch/maze"
)

type fixture struct {
	solver   *Solver
	logger   *logging.TestLogger
	metrics  *metrics.Metrics
	recorder *tracetest.SpanRecorder
}

func newFixture(t *testing.T, opts ...SolverOption) fixture {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	logger := logging.NewTestLogger()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	opts = append([]SolverOption{WithMetrics(m), WithTracer(tp.Tracer("test"))}, opts...)
	return fixture{
		solver:   NewSolver(logger.Logger, opts...),
		logger:   logger,
		metrics:  m,
		recorder: recorder,
	}
}

func parse(t *testing.T, text string) *maze.Maze {
	t.Helper()
	m, err := maze.ParseString(text)
	require.NoError(t, err)
	return m
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestSolver_Solve(t *testing.T) {
	f := newFixture(t)
	m := parse(t, "A  \n # \n  B\n")

	res, err := f.solver.Solve(context.Background(), Request{Maze: m, Strategy: gridsearch.AStar})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Len())

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "gridsearch.solve", spans[0].Name())
	attrs := spanAttrs(spans[0])
	assert.Equal(t, "astar", attrs["strategy"].AsString())
	assert.Equal(t, "solved", attrs["status"].AsString())
	assert.Equal(t, int64(5), attrs["path_length"].AsInt64())
	assert.Equal(t, int64(3), attrs["grid.rows"].AsInt64())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SearchesTotal.WithLabelValues("astar", "solved")))

	f.logger.AssertLogged(t, zapcore.InfoLevel, "search completed")
	solved := f.logger.FilterMessage("search completed").All()
	require.Len(t, solved, 1)
	fields := solved[0].ContextMap()
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), fields["trace_id"])
	assert.NotEmpty(t, fields["run.id"])

	engineStarted := f.logger.FilterMessage("search started").All()
	require.Len(t, engineStarted, 1, "engine logs through the solver logger")
	assert.Equal(t, fields["run.id"], engineStarted[0].ContextMap()["run.id"])
}

func TestSolver_Solve_NotFound(t *testing.T) {
	f := newFixture(t)
	m := parse(t, "A#B")

	res, err := f.solver.Solve(context.Background(), Request{Maze: m, Strategy: gridsearch.BreadthFirst})
	assert.ErrorIs(t, err, gridsearch.ErrNotFound)
	assert.Equal(t, gridsearch.StatusNotFound, res.Status)

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code, "exhaustion is an answer, not a failure")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SearchesTotal.WithLabelValues("bfs", "not_found")))
	f.logger.AssertLogged(t, zapcore.InfoLevel, "found no path")
}

func TestSolver_Solve_Cancelled(t *testing.T) {
	f := newFixture(t, WithSearchOptions(gridsearch.WithMaxExpansions(2)))
	m := parse(t, "A    \n     \n    B\n")

	_, err := f.solver.Solve(context.Background(), Request{Maze: m, Strategy: gridsearch.BreadthFirst})
	assert.ErrorIs(t, err, gridsearch.ErrExpansionLimit)

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1, "error recorded on span")
	f.logger.AssertLogged(t, zapcore.WarnLevel, "search failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SearchesTotal.WithLabelValues("bfs", "cancelled")))
}

func TestSolver_Solve_NoMaze(t *testing.T) {
	f := newFixture(t)
	_, err := f.solver.Solve(context.Background(), Request{Strategy: gridsearch.AStar})
	assert.ErrorIs(t, err, gridsearch.ErrInvalidGrid)
	assert.Empty(t, f.recorder.Ended())
}

func TestSolver_Compare(t *testing.T) {
	f := newFixture(t)
	m := parse(t, "A     \n ###  \n     B\n")

	summaries, err := f.solver.Compare(context.Background(), m, gridsearch.Strategies())
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	for i, s := range summaries {
		assert.Equal(t, gridsearch.Strategies()[i], s.Strategy)
		assert.Equal(t, gridsearch.StatusSolved, s.Status)
	}
	assert.Equal(t, 4, testutil.CollectAndCount(f.metrics.SearchesTotal))

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "gridsearch.compare", spans[0].Name())
	f.logger.AssertLogged(t, zapcore.InfoLevel, "batch finished")
}

func TestSolver_Batch_Cancelled(t *testing.T) {
	f := newFixture(t)
	m := parse(t, "A     \n      \n     B\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []gridsearch.Job{{Name: "one", Grid: m.Grid, Start: m.Start, Goal: m.Goal, Strategy: gridsearch.Greedy}}
	summaries, err := f.solver.Batch(ctx, "bench", jobs)
	assert.ErrorIs(t, err, gridsearch.ErrCancelled)
	assert.Contains(t, err.Error(), "one")
	require.Len(t, summaries, 1)
	assert.Equal(t, gridsearch.StatusCancelled, summaries[0].Status)
	assert.Equal(t, "one", summaries[0].Name)
}

func TestSolver_Observe(t *testing.T) {
	f := newFixture(t)
	f.solver.Observe(context.Background(), gridsearch.Result{Strategy: gridsearch.DepthFirst, Status: gridsearch.StatusCancelled, ExploredCount: 3}, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SearchesTotal.WithLabelValues("dfs", "cancelled")))
	f.logger.AssertField(t, "search finished", "status", "cancelled")
}

func TestSolver_SolveAll_Options(t *testing.T) {
	f := newFixture(t, WithSearchOptions(gridsearch.WithMaxExpansions(1)))
	m := parse(t, "A  \n # \n  B\n")
	jobs := []gridsearch.Job{
		{Name: "limited", Grid: m.Grid, Start: m.Start, Goal: m.Goal, Strategy: gridsearch.BreadthFirst},
		{Name: "relaxed", Grid: m.Grid, Start: m.Start, Goal: m.Goal, Strategy: gridsearch.BreadthFirst,
			Options: []gridsearch.Option{gridsearch.WithMaxExpansions(0)}},
	}

	results, err := f.solver.SolveAll(context.Background(), "gridsearch.bench", jobs, gridsearch.WithWorkers(1))
	require.Len(t, results, 2)
	assert.ErrorIs(t, err, gridsearch.ErrExpansionLimit)
	assert.Contains(t, err.Error(), "limited")
	assert.Equal(t, gridsearch.StatusCancelled, results[0].Result.Status)
	assert.Equal(t, gridsearch.StatusSolved, results[1].Result.Status)

	spans := f.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "gridsearch.bench", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	f.logger.AssertLogged(t, zapcore.WarnLevel, "batch finished with errors")
}
