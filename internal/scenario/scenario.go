// Package scenario loads batch definitions for the bench command.
//
// A scenario file is TOML with one [[scenario]] table per maze:
//
//	[[scenario]]
//	name = "demo"
//	maze = "mazes/demo.txt"
//	strategies = ["bfs", "astar"]
//
//	[[scenario]]
//	name = "inline"
//	maze = """
//	A  #
//	 #  B
//	"""
//
//	[[scenario]]
//	name = "random"
//	generate = { width = 30, height = 20, seed = 7 }
//
// A maze value containing a newline is read as the maze itself, otherwise as
// a path relative to the scenario file. Strategies default to all of them.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/maze"
	"github.com/pdrpinto/gridsearch/report"
)

// ErrInvalidScenario is returned for scenario files that decode but do not
// describe a runnable batch.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is one maze and the strategies to run on it.
type Scenario struct {
	Name          string                `toml:"name"`
	Maze          string                `toml:"maze"`
	Generate      *maze.GenerateOptions `toml:"generate"`
	Strategies    []string              `toml:"strategies"`
	MaxExpansions int                   `toml:"max_expansions"`

	loaded     *maze.Maze
	strategies []gridsearch.Strategy
}

// Loaded returns the maze after Load or Decode resolved it.
func (s *Scenario) Loaded() *maze.Maze { return s.loaded }

// Suite is a decoded scenario file.
type Suite struct {
	Workers   int        `toml:"workers"`
	Scenarios []Scenario `toml:"scenario"`
}

// Load reads and resolves the scenario file at path.
func Load(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenarios: %w", err)
	}
	defer f.Close()

	suite, err := Decode(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return suite, nil
}

// Decode reads a scenario file from r. Maze paths are resolved against baseDir.
func Decode(r io.Reader, baseDir string) (*Suite, error) {
	var suite Suite
	md, err := toml.NewDecoder(r).Decode(&suite)
	if err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidScenario, undecoded[0].String())
	}
	if len(suite.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: no [[scenario]] tables", ErrInvalidScenario)
	}
	if suite.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must not be negative", ErrInvalidScenario)
	}

	seen := make(map[string]bool, len(suite.Scenarios))
	for i := range suite.Scenarios {
		s := &suite.Scenarios[i]
		if s.Name == "" {
			return nil, fmt.Errorf("%w: scenario %d has no name", ErrInvalidScenario, i+1)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidScenario, s.Name)
		}
		seen[s.Name] = true
		if err := s.resolve(baseDir); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return &suite, nil
}

func (s *Scenario) resolve(baseDir string) error {
	if s.MaxExpansions < 0 {
		return fmt.Errorf("%w: max_expansions must not be negative", ErrInvalidScenario)
	}

	var err error
	switch {
	case s.Maze != "" && s.Generate != nil:
		return fmt.Errorf("%w: maze and generate are exclusive", ErrInvalidScenario)
	case strings.Contains(s.Maze, "\n"):
		s.loaded, err = maze.ParseString(s.Maze)
	case s.Maze != "":
		path := s.Maze
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		s.loaded, err = maze.Load(path)
	case s.Generate != nil:
		s.loaded, err = maze.Generate(*s.Generate)
	default:
		return fmt.Errorf("%w: needs maze or generate", ErrInvalidScenario)
	}
	if err != nil {
		return err
	}

	if len(s.Strategies) == 0 {
		s.strategies = gridsearch.Strategies()
		return nil
	}
	s.strategies = make([]gridsearch.Strategy, 0, len(s.Strategies))
	for _, name := range s.Strategies {
		strategy, err := gridsearch.ParseStrategy(name)
		if err != nil {
			return err
		}
		s.strategies = append(s.strategies, strategy)
	}
	return nil
}

// Jobs expands the suite into one job per scenario and strategy, named
// "<scenario>/<strategy>".
func (s *Suite) Jobs() []gridsearch.Job {
	var jobs []gridsearch.Job
	for _, sc := range s.Scenarios {
		var options []gridsearch.Option
		if sc.MaxExpansions > 0 {
			options = append(options, gridsearch.WithMaxExpansions(sc.MaxExpansions))
		}
		for _, strategy := range sc.strategies {
			jobs = append(jobs, gridsearch.Job{
				Name:     sc.Name + "/" + strategy.String(),
				Grid:     sc.loaded.Grid,
				Start:    sc.loaded.Start,
				Goal:     sc.loaded.Goal,
				Strategy: strategy,
				Options:  options,
			})
		}
	}
	return jobs
}

// Run solves every job of the suite and returns summaries in job order.
// Shortest is marked per scenario.
func (s *Suite) Run(ctx context.Context, options ...gridsearch.Option) []report.Summary {
	options = append(append([]gridsearch.Option(nil), options...), s.Options()...)
	return s.Summarize(gridsearch.SolveAll(ctx, s.Jobs(), options...))
}

// Options returns the batch options the file sets.
func (s *Suite) Options() []gridsearch.Option {
	if s.Workers > 0 {
		return []gridsearch.Option{gridsearch.WithWorkers(s.Workers)}
	}
	return nil
}

// Summarize groups results produced from Jobs by scenario.
func (s *Suite) Summarize(results []gridsearch.JobResult) []report.Summary {
	summaries := make([]report.Summary, 0, len(results))
	offset := 0
	for _, sc := range s.Scenarios {
		end := min(offset+len(sc.strategies), len(results))
		summaries = append(summaries, report.Summaries(results[offset:end])...)
		offset = end
	}
	return summaries
}
