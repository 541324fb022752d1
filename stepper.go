package gridsearch

import (
	"context"
	"errors"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Index         int     `json:"step"`
	Current       State   `json:"current"`
	Status        Status  `json:"status"`
	Frontier      []State `json:"frontier,omitempty"`
	Explored      []State `json:"explored,omitempty"`
	Path          []State `json:"path,omitempty"`
	ExploredCount int     `json:"explored_count"`
}

// Done reports whether the run has terminated.
func (s StepSnapshot) Done() bool { return s.Status.Terminal() }

// Found reports whether the run terminated with a path.
func (s StepSnapshot) Found() bool { return s.Status == StatusSolved }

// Stepper advances a search one accepted expansion per call. It is not safe
// for concurrent use; hosts that share one must serialize access.
type Stepper struct {
	run       *search
	stepCount int
}

// NewStepper prepares a search without expanding anything.
func NewStepper(
	grid *Grid,
	startState State,
	goalState State,
	strategy Strategy,
	options ...Option,
) (*Stepper, error) {
	run, err := newSearch(grid, startState, goalState, strategy, newOptions(options))
	if err != nil {
		return nil, err
	}
	return &Stepper{run: run}, nil
}

// Step advances the search by one accepted expansion and returns a snapshot.
// Once the run is terminal, Step keeps returning the final snapshot. The
// error is non-nil only when the run was cancelled.
func (s *Stepper) Step(ctx context.Context) (StepSnapshot, error) {
	if !s.run.status.Terminal() && s.run.step(ctx) {
		s.stepCount++
	}
	return s.snapshot(), s.cancelErr()
}

// Close stops the run and releases its frontier and explored set.
func (s *Stepper) Close() {
	if !s.run.status.Terminal() {
		s.run.cancel(ErrCancelled)
	}
}

// Status returns the current lifecycle position.
func (s *Stepper) Status() Status { return s.run.status }

// Result returns the terminal result. Before termination it reports the
// current status with no path.
func (s *Stepper) Result() (Result, error) {
	if !s.run.status.Terminal() {
		return Result{Strategy: s.run.strategy, Status: s.run.status, Start: s.run.start, Goal: s.run.goal, ExploredCount: len(s.run.order)}, nil
	}
	return s.run.result, s.run.err
}

func (s *Stepper) cancelErr() error {
	if s.run.status == StatusCancelled && errors.Is(s.run.err, ErrCancelled) {
		return s.run.err
	}
	return nil
}

func (s *Stepper) snapshot() StepSnapshot {
	run := s.run
	snap := StepSnapshot{
		Index:   s.stepCount,
		Current: run.current,
		Status:  run.status,
	}
	switch run.status {
	case StatusSolved, StatusNotFound, StatusCancelled:
		snap.Explored = append([]State(nil), run.result.Explored...)
		snap.Path = append([]State(nil), run.result.Path...)
		snap.ExploredCount = run.result.ExploredCount
	default:
		snap.Explored = append([]State(nil), run.order...)
		snap.ExploredCount = len(run.order)
		if run.frontier != nil {
			snap.Frontier = frontierStates(run.frontier)
		}
	}
	return snap
}
