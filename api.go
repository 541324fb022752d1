package gridsearch

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Status is the lifecycle position of a search run.
type Status uint8

const (
	StatusReady Status = iota
	StatusRunning
	StatusSolved
	StatusNotFound
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusSolved:
		return "solved"
	case StatusNotFound:
		return "not_found"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a name written by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for candidate := StatusReady; candidate <= StatusCancelled; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Terminal reports whether no further expansion can happen.
func (s Status) Terminal() bool {
	return s == StatusSolved || s == StatusNotFound || s == StatusCancelled
}

// Result contains the outcome of a search.
type Result struct {
	Strategy      Strategy `json:"strategy"`
	Status        Status   `json:"status"`
	Start         State    `json:"start"`
	Goal          State    `json:"goal"`
	Path          []State  `json:"path,omitempty"`
	Actions       []Action `json:"actions,omitempty"`
	Cost          int      `json:"cost"`
	ExploredCount int      `json:"explored_count"`
	// Explored lists accepted states in the order they were popped.
	// It is nil for cancelled runs.
	Explored []State `json:"explored,omitempty"`

	pathSet     map[State]struct{}
	exploredSet map[State]struct{}
}

func newResult(strategy Strategy, status Status, start, goal State, path []State, actions []Action, explored []State) Result {
	res := Result{
		Strategy:      strategy,
		Status:        status,
		Start:         start,
		Goal:          goal,
		Path:          path,
		Actions:       actions,
		ExploredCount: len(explored),
		Explored:      explored,
	}
	if len(path) > 0 {
		res.Cost = len(path) - 1
	}
	res.pathSet = make(map[State]struct{}, len(path))
	for _, s := range path {
		res.pathSet[s] = struct{}{}
	}
	res.exploredSet = make(map[State]struct{}, len(explored))
	for _, s := range explored {
		res.exploredSet[s] = struct{}{}
	}
	return res
}

// Found reports whether a path was found.
func (r Result) Found() bool { return r.Status == StatusSolved }

// Len returns the number of cells on the path, start and goal included.
func (r Result) Len() int { return len(r.Path) }

// InPath reports whether s lies on the found path.
func (r Result) InPath(s State) bool {
	_, ok := r.pathSet[s]
	return ok
}

// WasExplored reports whether s was popped and accepted during the run.
func (r Result) WasExplored(s State) bool {
	_, ok := r.exploredSet[s]
	return ok
}

// Options defines parameters for the search.
type Options struct {
	Heuristic       Heuristic
	Progress        []ProgressFunc
	Logger          *zap.Logger
	NumberOfWorkers int
	MaxExpansions   int
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithHeuristic replaces the Manhattan default. It only affects Greedy and A*.
func WithHeuristic(heuristic Heuristic) Option {
	return func(options *Options) { options.Heuristic = heuristic }
}

// WithProgress subscribes fn to progress events.
func WithProgress(fn ProgressFunc) Option {
	return func(options *Options) { options.Progress = append(options.Progress, fn) }
}

// WithObserver subscribes observer to progress events.
func WithObserver(observer Observer) Option {
	return WithProgress(observer.OnEvent)
}

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(logger *zap.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithWorkers specifies how many searches SolveAll runs at once.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithMaxExpansions cancels a run after n accepted expansions. Zero means no limit.
func WithMaxExpansions(n int) Option {
	return func(options *Options) { options.MaxExpansions = n }
}

func newOptions(options []Option) Options {
	searchOptions := Options{
		Heuristic:       Manhattan,
		NumberOfWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Heuristic == nil {
		searchOptions.Heuristic = Manhattan
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = zap.NewNop()
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	return searchOptions
}

// Solve runs strategy on grid from start to goal until it terminates.
//
// A solved run returns a nil error. An exhausted run returns a Result with
// StatusNotFound and an error wrapping ErrNotFound. A run whose context is
// done returns StatusCancelled and an error wrapping ErrCancelled and the
// context error. Invalid input fails before any expansion.
func Solve(
	contextObject context.Context,
	grid *Grid,
	startState State,
	goalState State,
	strategy Strategy,
	options ...Option,
) (Result, error) {
	run, err := newSearch(grid, startState, goalState, strategy, newOptions(options))
	if err != nil {
		return Result{Strategy: strategy, Start: startState, Goal: goalState}, err
	}
	for run.step(contextObject) {
	}
	return run.result, run.err
}
