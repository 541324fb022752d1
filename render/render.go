// Package render draws mazes and search results as text, styled terminal
// output or PNG images.
package render

import (
	"image/color"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/maze"
)

// CellKind is what a cell shows when drawn.
type CellKind uint8

const (
	Empty CellKind = iota
	Wall
	Start
	Goal
	Path
	Explored
)

func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case Goal:
		return "goal"
	case Path:
		return "path"
	case Explored:
		return "explored"
	}
	return "unknown"
}

// Marks answers membership queries for a run. gridsearch.Result implements it.
type Marks interface {
	InPath(gridsearch.State) bool
	WasExplored(gridsearch.State) bool
}

// Options selects which run data is drawn.
type Options struct {
	ShowSolution bool
	ShowExplored bool
}

// DefaultOptions draws the solution but not the explored cells.
var DefaultOptions = Options{ShowSolution: true}

// Classify returns the kind of every cell. marks may be nil to draw only
// the maze. Precedence is wall, start, goal, path, explored, empty.
func Classify(m *maze.Maze, marks Marks, opts Options) [][]CellKind {
	kinds := make([][]CellKind, m.Grid.Height())
	for i := range kinds {
		kinds[i] = make([]CellKind, m.Grid.Width())
		for j := range kinds[i] {
			kinds[i][j] = classify(m, marks, opts, gridsearch.State{Row: i, Col: j})
		}
	}
	return kinds
}

func classify(m *maze.Maze, marks Marks, opts Options, state gridsearch.State) CellKind {
	switch {
	case m.Grid.IsWall(state):
		return Wall
	case state == m.Start:
		return Start
	case state == m.Goal:
		return Goal
	case marks == nil:
		return Empty
	case opts.ShowSolution && marks.InPath(state):
		return Path
	case opts.ShowExplored && marks.WasExplored(state):
		return Explored
	}
	return Empty
}

// SnapshotMarks adapts a step snapshot for drawing a run in progress.
func SnapshotMarks(snap gridsearch.StepSnapshot) Marks {
	s := stateMarks{
		path:     make(map[gridsearch.State]struct{}, len(snap.Path)),
		explored: make(map[gridsearch.State]struct{}, len(snap.Explored)),
	}
	for _, state := range snap.Path {
		s.path[state] = struct{}{}
	}
	for _, state := range snap.Explored {
		s.explored[state] = struct{}{}
	}
	return s
}

type stateMarks struct {
	path     map[gridsearch.State]struct{}
	explored map[gridsearch.State]struct{}
}

func (s stateMarks) InPath(state gridsearch.State) bool {
	_, ok := s.path[state]
	return ok
}

func (s stateMarks) WasExplored(state gridsearch.State) bool {
	_, ok := s.explored[state]
	return ok
}

// Palette maps cell kinds to colours shared by the styled and image renderers.
var Palette = map[CellKind]color.RGBA{
	Wall:     {R: 40, G: 40, B: 40, A: 255},
	Start:    {R: 255, G: 0, B: 0, A: 255},
	Goal:     {R: 0, G: 171, B: 28, A: 255},
	Path:     {R: 220, G: 235, B: 113, A: 255},
	Explored: {R: 212, G: 97, B: 85, A: 255},
	Empty:    {R: 237, G: 240, B: 252, A: 255},
}
