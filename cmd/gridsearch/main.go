// Package main implements the gridsearch command: solve, compare and
// benchmark mazes, watch searches in the terminal, or serve the HTTP API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/config"
	"github.com/pdrpinto/gridsearch/internal/logging"
	"github.com/pdrpinto/gridsearch/internal/metrics"
	"github.com/pdrpinto/gridsearch/internal/service"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, a := newRootCmd()
	if err := executeCommand(ctx, root, a); err != nil {
		fmt.Fprintln(os.Stderr, "gridsearch:", err)
		stop()
		os.Exit(1)
	}
}

// executeCommand runs root and releases the logger and log file whether or
// not the command succeeds.
func executeCommand(ctx context.Context, root *cobra.Command, a *app) error {
	defer a.close()
	return root.ExecuteContext(ctx)
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
}

// app is the wiring every command runs against.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	solver   *service.Solver
	closers  []io.Closer
}

func newRootCmd() (*cobra.Command, *app) {
	flags := &globalFlags{}
	a := &app{}

	root := &cobra.Command{
		Use:   "gridsearch",
		Short: "Find paths through grid mazes with DFS, BFS, greedy and A* search",
		Long: `gridsearch solves text mazes where 'A' marks the start, 'B' the goal,
spaces are free cells and anything else is a wall.

Examples:
  # Solve with A* and show explored cells
  gridsearch solve maze.txt --strategy astar --explored

  # Compare all strategies on one maze
  gridsearch compare maze.txt

  # Watch BFS explore a maze, restarting when the file changes
  gridsearch view maze.txt --strategy bfs --watch`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (json, console)")
	pf.StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newSolveCmd(a),
		newCompareCmd(a),
		newBenchCmd(a),
		newServeCmd(a),
		newViewCmd(a),
		newGenerateCmd(a),
	)
	return root, a
}

func (a *app) setup(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}

	logOut := cmd.ErrOrStderr()
	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		logOut = f
	} else if cmd.Name() == "view" {
		// The viewer owns the terminal.
		logOut = io.Discard
	}
	logger, err := logging.NewLoggerTo(&cfg.Logging, logOut)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewMetrics(a.registry)
	a.solver = service.NewSolver(logger,
		service.WithMetrics(a.metrics),
		service.WithSearchOptions(cfg.Search.Options()...),
	)
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// strategy resolves a --strategy flag, falling back to the configured default.
func (a *app) strategy(name string) (gridsearch.Strategy, error) {
	if name == "" {
		return a.cfg.Search.DefaultStrategy(), nil
	}
	return gridsearch.ParseStrategy(name)
}

// strategies resolves a --strategies list; empty means all of them.
func strategies(names []string) ([]gridsearch.Strategy, error) {
	if len(names) == 0 {
		return gridsearch.Strategies(), nil
	}
	out := make([]gridsearch.Strategy, 0, len(names))
	for _, name := range names {
		s, err := gridsearch.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
