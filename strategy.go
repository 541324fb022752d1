package gridsearch

import (
	"fmt"
	"strings"
)

// Strategy selects the frontier ordering and cost terms of a search.
//
//	Strategy      Frontier        g  h  Optimal
//	DepthFirst    stack           -  -  no
//	BreadthFirst  queue           -  -  yes (unit cost)
//	Greedy        priority by h   -  x  no
//	AStar         priority by g+h x  x  yes (admissible h)
type Strategy uint8

const (
	DepthFirst Strategy = iota
	BreadthFirst
	Greedy
	AStar
)

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{DepthFirst, BreadthFirst, Greedy, AStar}
}

func (s Strategy) String() string {
	switch s {
	case DepthFirst:
		return "dfs"
	case BreadthFirst:
		return "bfs"
	case Greedy:
		return "greedy"
	case AStar:
		return "astar"
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// Title returns a human readable name.
func (s Strategy) Title() string {
	switch s {
	case DepthFirst:
		return "Depth-First Search"
	case BreadthFirst:
		return "Breadth-First Search"
	case Greedy:
		return "Greedy Best-First Search"
	case AStar:
		return "A* Search"
	}
	return s.String()
}

// MarshalText encodes the strategy by its short name.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts any name understood by ParseStrategy.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy maps a name such as "bfs", "a*" or "greedy" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dfs", "depth-first", "depthfirst", "stack":
		return DepthFirst, nil
	case "bfs", "breadth-first", "breadthfirst", "queue":
		return BreadthFirst, nil
	case "greedy", "gbfs", "greedy-best-first", "best-first":
		return Greedy, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func (s Strategy) valid() bool { return s <= AStar }

// UsesHeuristic reports whether h takes part in the ordering.
func (s Strategy) UsesHeuristic() bool { return s == Greedy || s == AStar }

// UsesPathCost reports whether g takes part in the ordering.
func (s Strategy) UsesPathCost() bool { return s == AStar }

// DedupesFrontier reports whether neighbors already waiting in the frontier
// are skipped on insertion. Priority strategies dedupe on pop instead.
func (s Strategy) DedupesFrontier() bool { return s == DepthFirst || s == BreadthFirst }

// Optimal reports whether the strategy guarantees a shortest path on unit-cost grids.
func (s Strategy) Optimal() bool { return s == BreadthFirst || s == AStar }

func (s Strategy) newFrontier() Frontier {
	switch s {
	case DepthFirst:
		return NewStackFrontier()
	case BreadthFirst:
		return NewQueueFrontier()
	case Greedy:
		return NewPriorityFrontier(func(n Node) int { return n.H })
	default:
		return NewPriorityFrontier(Node.F)
	}
}
