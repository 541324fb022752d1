package gridsearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepper_BreadthFirst(t *testing.T) {
	grid := openGrid(t, 3, 3)
	stepper, err := NewStepper(grid, State{0, 0}, State{2, 2}, BreadthFirst)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, stepper.Status())

	ctx := context.Background()
	first, err := stepper.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, State{0, 0}, first.Current)
	assert.Equal(t, StatusRunning, first.Status)
	assert.Equal(t, 1, first.ExploredCount)
	assert.ElementsMatch(t, []State{{1, 0}, {0, 1}}, first.Frontier)
	assert.False(t, first.Done())

	last := first
	for !last.Done() {
		prev := last.ExploredCount
		last, err = stepper.Step(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, last.ExploredCount, prev, "explored count never decreases")
	}
	assert.True(t, last.Found())
	assert.Equal(t, 9, last.Index)
	assert.Equal(t, State{2, 2}, last.Current)
	assert.Len(t, last.Path, 5)
	assert.Empty(t, last.Frontier)

	again, err := stepper.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, last, again)

	res, err := stepper.Result()
	require.NoError(t, err)
	assert.Equal(t, last.Path, res.Path)
	assert.Equal(t, 9, res.ExploredCount)
}

func TestStepper_MatchesSolve(t *testing.T) {
	grid := demoMaze(t)
	for _, strategy := range Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			want, err := Solve(context.Background(), grid, State{1, 1}, State{8, 8}, strategy)
			require.NoError(t, err)

			stepper, err := NewStepper(grid, State{1, 1}, State{8, 8}, strategy)
			require.NoError(t, err)
			var snap StepSnapshot
			for !snap.Done() {
				snap, err = stepper.Step(context.Background())
				require.NoError(t, err)
			}
			assert.Equal(t, want.Path, snap.Path)
			assert.Equal(t, want.Explored, snap.Explored)
			assert.Equal(t, want.ExploredCount, snap.Index)
		})
	}
}

func TestStepper_NotFound(t *testing.T) {
	grid := gridFromText(t, ".#.")
	stepper, err := NewStepper(grid, State{0, 0}, State{0, 2}, DepthFirst)
	require.NoError(t, err)

	snap, err := stepper.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, snap.Status)

	snap, err = stepper.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, snap.Status)
	assert.True(t, snap.Done())
	assert.False(t, snap.Found())

	_, err = stepper.Result()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStepper_Cancellation(t *testing.T) {
	grid := openGrid(t, 10, 10)

	t.Run("close", func(t *testing.T) {
		stepper, err := NewStepper(grid, State{0, 0}, State{9, 9}, AStar)
		require.NoError(t, err)
		_, err = stepper.Step(context.Background())
		require.NoError(t, err)

		stepper.Close()
		assert.Equal(t, StatusCancelled, stepper.Status())

		snap, err := stepper.Step(context.Background())
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, 1, snap.ExploredCount)
		assert.Empty(t, snap.Explored)
		assert.Empty(t, snap.Frontier)
	})

	t.Run("context", func(t *testing.T) {
		stepper, err := NewStepper(grid, State{0, 0}, State{9, 9}, BreadthFirst)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		snap, err := stepper.Step(ctx)
		assert.ErrorIs(t, err, ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StatusCancelled, snap.Status)
	})

	t.Run("close before first step", func(t *testing.T) {
		stepper, err := NewStepper(grid, State{0, 0}, State{9, 9}, Greedy)
		require.NoError(t, err)
		stepper.Close()

		res, err := stepper.Result()
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, StatusCancelled, res.Status)
	})
}

func TestNewStepper_InvalidEndpoint(t *testing.T) {
	grid := gridFromText(t, "#.")
	_, err := NewStepper(grid, State{0, 0}, State{0, 1}, BreadthFirst)
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}
