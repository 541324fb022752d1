// Package gridsearch provides a grid pathfinding engine with interchangeable
// search strategies: depth-first, breadth-first, Greedy Best-First and A*.
//
// It exposes three main entry points:
//
//   - Solve: run one search to completion and get a Result.
//   - Stepper: iterate a search one accepted expansion at a time to drive UIs or debugging tools.
//   - SolveAll: run many independent searches on a worker pool.
//
// All four strategies share a single expansion loop. A Strategy only picks the
// frontier ordering (stack, queue or priority) and whether the heuristic and
// path-cost terms take part in it. Progress is reported through fire-and-forget
// events so renderers and live viewers can follow a run without steering it.
package gridsearch
