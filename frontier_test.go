package gridsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeAt(id, row, col, g, h int) Node {
	return Node{ID: id, Parent: NoParent, State: State{row, col}, G: g, H: h}
}

func drain(t *testing.T, f Frontier) []int {
	t.Helper()
	var ids []int
	for !f.Empty() {
		n, err := f.Remove()
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	return ids
}

func TestFrontier_Ordering(t *testing.T) {
	tests := []struct {
		name     string
		frontier Frontier
		want     []int
	}{
		{name: "stack is LIFO", frontier: NewStackFrontier(), want: []int{3, 2, 1, 0}},
		{name: "queue is FIFO", frontier: NewQueueFrontier(), want: []int{0, 1, 2, 3}},
		{
			name:     "priority by h, ties by insertion",
			frontier: NewPriorityFrontier(func(n Node) int { return n.H }),
			want:     []int{1, 3, 0, 2},
		},
		{name: "priority by f", frontier: NewPriorityFrontier(Node.F), want: []int{0, 1, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.frontier.Add(nodeAt(0, 0, 0, 0, 5))
			tt.frontier.Add(nodeAt(1, 0, 1, 5, 1))
			tt.frontier.Add(nodeAt(2, 0, 2, 6, 5))
			tt.frontier.Add(nodeAt(3, 0, 3, 5, 1))
			assert.Equal(t, 4, tt.frontier.Len())
			assert.Equal(t, tt.want, drain(t, tt.frontier))
		})
	}
}

func TestFrontier_RemoveEmpty(t *testing.T) {
	for _, f := range []Frontier{NewStackFrontier(), NewQueueFrontier(), NewPriorityFrontier(Node.F)} {
		assert.True(t, f.Empty())
		_, err := f.Remove()
		assert.ErrorIs(t, err, ErrEmptyFrontier)
	}
}

func TestFrontier_ContainsState(t *testing.T) {
	for _, f := range []Frontier{NewStackFrontier(), NewQueueFrontier(), NewPriorityFrontier(Node.F)} {
		s := State{1, 1}
		assert.False(t, f.ContainsState(s))

		f.Add(nodeAt(0, 1, 1, 0, 0))
		f.Add(nodeAt(1, 1, 1, 1, 0))
		assert.True(t, f.ContainsState(s))

		_, err := f.Remove()
		require.NoError(t, err)
		assert.True(t, f.ContainsState(s), "one duplicate entry remains")

		_, err = f.Remove()
		require.NoError(t, err)
		assert.False(t, f.ContainsState(s))
	}
}

func TestQueueFrontier_Compaction(t *testing.T) {
	f := NewQueueFrontier()
	next := 0
	for round := 0; round < 10; round++ {
		for i := 0; i < 50; i++ {
			f.Add(nodeAt(next, next, 0, 0, 0))
			next++
		}
		for i := 0; i < 40; i++ {
			_, err := f.Remove()
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 100, f.Len())

	ids := drain(t, f)
	require.Len(t, ids, 100)
	for i := 1; i < len(ids); i++ {
		assert.Equal(t, ids[i-1]+1, ids[i])
	}
}

func TestFrontierStates(t *testing.T) {
	f := NewQueueFrontier()
	f.Add(nodeAt(0, 0, 0, 0, 0))
	f.Add(nodeAt(1, 0, 1, 0, 0))
	f.Add(nodeAt(2, 0, 1, 0, 0))
	assert.ElementsMatch(t, []State{{0, 0}, {0, 1}}, frontierStates(f))
}
