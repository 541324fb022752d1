package gridsearch

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// gridFromText builds a grid where '#' is a wall and anything else is free.
func gridFromText(t testing.TB, lines ...string) *Grid {
	t.Helper()
	rows := make([][]bool, len(lines))
	for i, line := range lines {
		rows[i] = make([]bool, len(line))
		for j, ch := range line {
			rows[i][j] = ch == '#'
		}
	}
	grid, err := NewGrid(rows)
	require.NoError(t, err)
	return grid
}

func openGrid(t testing.TB, height, width int) *Grid {
	t.Helper()
	rows := make([][]bool, height)
	for i := range rows {
		rows[i] = make([]bool, width)
	}
	grid, err := NewGrid(rows)
	require.NoError(t, err)
	return grid
}

func randomGrid(t testing.TB, r *rand.Rand, height, width int, density float64) *Grid {
	t.Helper()
	rows := make([][]bool, height)
	for i := range rows {
		rows[i] = make([]bool, width)
		for j := range rows[i] {
			rows[i][j] = r.Float64() < density
		}
	}
	rows[0][0] = false
	rows[height-1][width-1] = false
	grid, err := NewGrid(rows)
	require.NoError(t, err)
	return grid
}

// reachable counts free cells connected to from.
func reachable(g *Grid, from State) int {
	seen := map[State]bool{from: true}
	queue := []State{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, m := range g.Neighbors(cur) {
			if !seen[m.State] {
				seen[m.State] = true
				queue = append(queue, m.State)
			}
		}
	}
	return len(seen)
}

func requireValidPath(t *testing.T, g *Grid, res Result) {
	t.Helper()
	require.NotEmpty(t, res.Path)
	require.Equal(t, res.Start, res.Path[0])
	require.Equal(t, res.Goal, res.Path[len(res.Path)-1])
	require.Len(t, res.Actions, len(res.Path)-1)
	for i, s := range res.Path {
		require.False(t, g.IsWall(s), "path cell %v is a wall", s)
		if i == 0 {
			continue
		}
		require.Equal(t, 1, Manhattan(res.Path[i-1], s), "cells %v and %v are not adjacent", res.Path[i-1], s)
	}
}
