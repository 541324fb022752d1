package gridsearch

import "fmt"

// State identifies a grid cell by row and column.
type State struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s State) String() string { return fmt.Sprintf("(%d, %d)", s.Row, s.Col) }

// Action is the move that led from a parent state to a child state.
type Action uint8

const (
	NoAction Action = iota
	Up
	Down
	Left
	Right
)

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return ""
}

// MarshalText encodes the action as its label.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes a label written by MarshalText.
func (a *Action) UnmarshalText(text []byte) error {
	for _, d := range directions {
		if d.action.String() == string(text) {
			*a = d.action
			return nil
		}
	}
	if len(text) == 0 {
		*a = NoAction
		return nil
	}
	return fmt.Errorf("unknown action %q", text)
}

// Move pairs a neighbor state with the action reaching it.
type Move struct {
	Action Action
	State  State
}

// directions is the neighbor order. It decides tie-breaks for the
// unweighted strategies and must not change.
var directions = [...]struct {
	action     Action
	dRow, dCol int
}{
	{Up, -1, 0},
	{Down, 1, 0},
	{Left, 0, -1},
	{Right, 0, 1},
}

// Grid is an immutable occupancy map. true marks a wall.
type Grid struct {
	walls  [][]bool
	height int
	width  int
}

// NewGrid copies rows into a Grid. Every row must have the same, non-zero width.
func NewGrid(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidGrid)
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: zero width", ErrInvalidGrid)
	}
	walls := make([][]bool, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidGrid, i, len(row), width)
		}
		walls[i] = append([]bool(nil), row...)
	}
	return &Grid{walls: walls, height: len(rows), width: width}, nil
}

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// InBounds reports whether s lies inside the grid.
func (g *Grid) InBounds(s State) bool {
	return s.Row >= 0 && s.Row < g.height && s.Col >= 0 && s.Col < g.width
}

// IsWall reports whether s is blocked. Cells outside the grid count as walls.
func (g *Grid) IsWall(s State) bool {
	if !g.InBounds(s) {
		return true
	}
	return g.walls[s.Row][s.Col]
}

// Neighbors returns the free 4-connected neighbors of s in up, down, left, right order.
func (g *Grid) Neighbors(s State) []Move {
	moves := make([]Move, 0, len(directions))
	for _, d := range directions {
		next := State{Row: s.Row + d.dRow, Col: s.Col + d.dCol}
		if g.InBounds(next) && !g.walls[next.Row][next.Col] {
			moves = append(moves, Move{Action: d.action, State: next})
		}
	}
	return moves
}

// FreeCells counts cells that are not walls.
func (g *Grid) FreeCells() int {
	n := 0
	for _, row := range g.walls {
		for _, wall := range row {
			if !wall {
				n++
			}
		}
	}
	return n
}

// Rows returns a copy of the occupancy table.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.height)
	for i, row := range g.walls {
		rows[i] = append([]bool(nil), row...)
	}
	return rows
}
