package gridsearch

// Heuristic estimates the remaining cost from a to b.
type Heuristic func(a, b State) int

// Manhattan is |Δrow| + |Δcol|. It is admissible and consistent on
// 4-connected unit-cost grids.
func Manhattan(a, b State) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Zero always estimates 0, turning A* into uniform-cost search.
func Zero(State, State) int { return 0 }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
