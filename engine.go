package gridsearch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// search is one run of the expansion loop. It owns its frontier, explored
// set and node arena; only the grid is shared.
type search struct {
	grid      *Grid
	start     State
	goal      State
	strategy  Strategy
	heuristic Heuristic
	maxExpand int
	logger    *zap.Logger

	status   Status
	frontier Frontier
	explored map[State]struct{}
	order    []State
	nodes    arena
	events   emitter
	current  State

	result Result
	err    error
}

func newSearch(grid *Grid, start, goal State, strategy Strategy, opts Options) (*search, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if !strategy.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(strategy))
	}
	for _, endpoint := range []struct {
		name  string
		state State
	}{{"start", start}, {"goal", goal}} {
		if !grid.InBounds(endpoint.state) {
			return nil, fmt.Errorf("%w: %s %v outside %dx%d grid", ErrInvalidEndpoint, endpoint.name, endpoint.state, grid.Height(), grid.Width())
		}
		if grid.IsWall(endpoint.state) {
			return nil, fmt.Errorf("%w: %s %v is a wall", ErrInvalidEndpoint, endpoint.name, endpoint.state)
		}
	}
	return &search{
		grid:      grid,
		start:     start,
		goal:      goal,
		strategy:  strategy,
		heuristic: opts.Heuristic,
		maxExpand: opts.MaxExpansions,
		logger:    opts.Logger,
		status:    StatusReady,
		events:    emitter{subscribers: opts.Progress},
	}, nil
}

func (s *search) h(state State) int {
	if !s.strategy.UsesHeuristic() {
		return 0
	}
	return s.heuristic(state, s.goal)
}

func (s *search) begin() {
	s.frontier = s.strategy.newFrontier()
	s.explored = make(map[State]struct{})
	s.frontier.Add(s.nodes.add(NoParent, s.start, NoAction, 0, s.h(s.start)))
	s.status = StatusRunning
	s.logger.Debug("search started",
		zap.Stringer("strategy", s.strategy),
		zap.Stringer("start", s.start),
		zap.Stringer("goal", s.goal),
	)
}

// step runs the loop until one node is accepted or the run terminates.
// It returns false once the run is terminal.
func (s *search) step(ctx context.Context) bool {
	if s.status == StatusReady {
		s.begin()
	}
	for s.status == StatusRunning {
		if err := ctx.Err(); err != nil {
			s.cancel(fmt.Errorf("%w: %w", ErrCancelled, err))
			return false
		}
		if s.frontier.Empty() {
			s.exhaust()
			return false
		}
		if s.maxExpand > 0 && len(s.order) >= s.maxExpand {
			s.cancel(fmt.Errorf("%w: %w after %d expansions", ErrCancelled, ErrExpansionLimit, len(s.order)))
			return false
		}

		node, err := s.frontier.Remove()
		if err != nil {
			s.exhaust()
			return false
		}
		// stale or duplicate entry
		if _, seen := s.explored[node.State]; seen {
			continue
		}
		s.explored[node.State] = struct{}{}
		s.order = append(s.order, node.State)
		s.current = node.State
		s.events.emit(node.State, PhaseExplored)

		if node.State == s.goal {
			s.solve(node)
			return true
		}
		s.expand(node)
		return true
	}
	return false
}

func (s *search) expand(parent Node) {
	for _, move := range s.grid.Neighbors(parent.State) {
		if _, seen := s.explored[move.State]; seen {
			continue
		}
		if s.strategy.DedupesFrontier() && s.frontier.ContainsState(move.State) {
			continue
		}
		s.frontier.Add(s.nodes.add(parent.ID, move.State, move.Action, parent.G+1, s.h(move.State)))
	}
}

func (s *search) solve(goal Node) {
	path, actions := s.nodes.path(goal.ID)
	s.status = StatusSolved
	s.result = newResult(s.strategy, StatusSolved, s.start, s.goal, path, actions, s.order)
	s.frontier = nil
	for _, state := range path {
		s.events.emit(state, PhasePath)
	}
	s.logger.Debug("search solved",
		zap.Stringer("strategy", s.strategy),
		zap.Int("explored", len(s.order)),
		zap.Int("path_length", len(path)),
		zap.Int("nodes", s.nodes.len()),
	)
}

func (s *search) exhaust() {
	s.status = StatusNotFound
	s.result = newResult(s.strategy, StatusNotFound, s.start, s.goal, nil, nil, s.order)
	s.err = fmt.Errorf("%w: explored %d states", ErrNotFound, len(s.order))
	s.frontier = nil
	s.logger.Debug("search exhausted",
		zap.Stringer("strategy", s.strategy),
		zap.Int("explored", len(s.order)),
	)
}

func (s *search) cancel(err error) {
	explored := len(s.order)
	s.status = StatusCancelled
	s.result = newResult(s.strategy, StatusCancelled, s.start, s.goal, nil, nil, nil)
	s.result.ExploredCount = explored
	s.err = err
	s.frontier = nil
	s.explored = nil
	s.order = nil
	s.nodes = arena{}
	s.logger.Debug("search cancelled",
		zap.Stringer("strategy", s.strategy),
		zap.Int("explored", explored),
		zap.Error(err),
	)
}
