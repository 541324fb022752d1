// Package maze reads and writes the text maze format and generates random
// mazes for the search engine.
//
// A maze file is a block of newline separated rows. 'A' marks the start,
// 'B' the goal, a space is a free cell and any other character is a wall.
// Rows shorter than the widest row are padded with free cells.
package maze

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdrpinto/gridsearch"
)

const (
	StartMarker = 'A'
	GoalMarker  = 'B'
	FreeMarker  = ' '
	WallMarker  = '#'
)

var (
	// ErrMissingStart is returned when the text has no start marker.
	ErrMissingStart = errors.New("maze has no start point")
	// ErrMissingGoal is returned when the text has no goal marker.
	ErrMissingGoal = errors.New("maze has no goal")
	// ErrDuplicateMarker is returned when a start or goal marker appears more than once.
	ErrDuplicateMarker = errors.New("maze must have exactly one start point and one goal")
)

// Maze is a grid with its start and goal cells.
type Maze struct {
	Grid  *gridsearch.Grid
	Start gridsearch.State
	Goal  gridsearch.State
}

// Load parses the maze file at path.
func Load(path string) (*Maze, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maze: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// ParseString parses a maze held in memory.
func ParseString(s string) (*Maze, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a maze from r. Marker counts are checked over the whole text
// before any row is built.
func Parse(r io.Reader) (*Maze, error) {
	var lines [][]rune
	starts, goals := 0, 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := []rune(strings.TrimSuffix(scanner.Text(), "\r"))
		for _, ch := range line {
			switch ch {
			case StartMarker:
				starts++
			case GoalMarker:
				goals++
			}
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read maze: %w", err)
	}

	switch {
	case starts == 0:
		return nil, ErrMissingStart
	case goals == 0:
		return nil, ErrMissingGoal
	case starts > 1:
		return nil, fmt.Errorf("%w: found %d start markers", ErrDuplicateMarker, starts)
	case goals > 1:
		return nil, fmt.Errorf("%w: found %d goal markers", ErrDuplicateMarker, goals)
	}

	lines = trimBlank(lines)
	width := 0
	for _, line := range lines {
		width = max(width, len(line))
	}

	m := &Maze{}
	rows := make([][]bool, len(lines))
	for i, line := range lines {
		rows[i] = make([]bool, width)
		for j, ch := range line {
			switch ch {
			case StartMarker:
				m.Start = gridsearch.State{Row: i, Col: j}
			case GoalMarker:
				m.Goal = gridsearch.State{Row: i, Col: j}
			case FreeMarker:
			default:
				rows[i][j] = true
			}
		}
	}

	grid, err := gridsearch.NewGrid(rows)
	if err != nil {
		return nil, err
	}
	m.Grid = grid
	return m, nil
}

func trimBlank(lines [][]rune) [][]rune {
	for len(lines) > 0 && len(lines[0]) == 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// String renders the maze back to the text format, walls as '#'.
func (m *Maze) String() string {
	var b strings.Builder
	for i := 0; i < m.Grid.Height(); i++ {
		for j := 0; j < m.Grid.Width(); j++ {
			state := gridsearch.State{Row: i, Col: j}
			switch {
			case state == m.Start:
				b.WriteRune(StartMarker)
			case state == m.Goal:
				b.WriteRune(GoalMarker)
			case m.Grid.IsWall(state):
				b.WriteRune(WallMarker)
			default:
				b.WriteRune(FreeMarker)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Solve runs strategy from the maze start to its goal.
func (m *Maze) Solve(ctx context.Context, strategy gridsearch.Strategy, options ...gridsearch.Option) (gridsearch.Result, error) {
	return gridsearch.Solve(ctx, m.Grid, m.Start, m.Goal, strategy, options...)
}
