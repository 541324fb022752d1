package maze

import (
	"errors"
	"fmt"

	"github.com/pdrpinto/gridsearch"
)

// ErrInvalidEdit is returned when an edit would leave the maze without a
// distinct, free start and goal.
var ErrInvalidEdit = errors.New("invalid maze edit")

// edited builds the Maze an edit produces. Edits never touch the receiver's
// grid, which a running search may still be reading.
func edited(rows [][]bool, start, goal gridsearch.State) (*Maze, error) {
	grid, err := gridsearch.NewGrid(rows)
	if err != nil {
		return nil, err
	}
	return &Maze{Grid: grid, Start: start, Goal: goal}, nil
}

func (m *Maze) editable(s gridsearch.State) error {
	if !m.Grid.InBounds(s) {
		return fmt.Errorf("%w: %v outside %dx%d maze", ErrInvalidEdit, s, m.Grid.Height(), m.Grid.Width())
	}
	return nil
}

// ToggleWall flips s between wall and free. Start and goal cannot be walled.
func (m *Maze) ToggleWall(s gridsearch.State) (*Maze, error) {
	if err := m.editable(s); err != nil {
		return nil, err
	}
	if s == m.Start || s == m.Goal {
		return nil, fmt.Errorf("%w: %v holds an endpoint", ErrInvalidEdit, s)
	}
	rows := m.Grid.Rows()
	rows[s.Row][s.Col] = !rows[s.Row][s.Col]
	return edited(rows, m.Start, m.Goal)
}

// MoveStart places the start on s, clearing any wall there.
func (m *Maze) MoveStart(s gridsearch.State) (*Maze, error) {
	if err := m.editable(s); err != nil {
		return nil, err
	}
	if s == m.Goal {
		return nil, fmt.Errorf("%w: start and goal must differ", ErrInvalidEdit)
	}
	rows := m.Grid.Rows()
	rows[s.Row][s.Col] = false
	return edited(rows, s, m.Goal)
}

// MoveGoal places the goal on s, clearing any wall there.
func (m *Maze) MoveGoal(s gridsearch.State) (*Maze, error) {
	if err := m.editable(s); err != nil {
		return nil, err
	}
	if s == m.Start {
		return nil, fmt.Errorf("%w: start and goal must differ", ErrInvalidEdit)
	}
	rows := m.Grid.Rows()
	rows[s.Row][s.Col] = false
	return edited(rows, m.Start, s)
}

// Cleared removes every wall.
func (m *Maze) Cleared() *Maze {
	rows := make([][]bool, m.Grid.Height())
	for i := range rows {
		rows[i] = make([]bool, m.Grid.Width())
	}
	cleared, _ := edited(rows, m.Start, m.Goal)
	return cleared
}

// Resized crops or pads the maze to height x width. New cells are free and
// endpoints that fall outside are pulled to the nearest edge.
func (m *Maze) Resized(height, width int) (*Maze, error) {
	if height < 1 || width < 1 || height > MaxSide || width > MaxSide {
		return nil, fmt.Errorf("%w: size %dx%d outside 1..%d", ErrInvalidEdit, height, width, MaxSide)
	}
	clamp := func(s gridsearch.State) gridsearch.State {
		return gridsearch.State{Row: min(s.Row, height-1), Col: min(s.Col, width-1)}
	}
	start, goal := clamp(m.Start), clamp(m.Goal)
	if start == goal {
		return nil, fmt.Errorf("%w: %dx%d leaves no room for start and goal", ErrInvalidEdit, height, width)
	}

	rows := make([][]bool, height)
	for i := range rows {
		rows[i] = make([]bool, width)
		for j := range rows[i] {
			s := gridsearch.State{Row: i, Col: j}
			rows[i][j] = m.Grid.InBounds(s) && m.Grid.IsWall(s)
		}
	}
	rows[start.Row][start.Col] = false
	rows[goal.Row][goal.Col] = false
	return edited(rows, start, goal)
}
