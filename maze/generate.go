package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/pdrpinto/gridsearch"
)

// GenerateOptions controls Generate. Zero values take the defaults.
type GenerateOptions struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Clusters int     `json:"clusters"`
	Steps    int     `json:"steps"`
	Density  float64 `json:"density"`
	// Seed makes the maze reproducible. Zero seeds from the clock.
	Seed int64 `json:"seed"`
}

const (
	DefaultWidth    = 40
	DefaultHeight   = 24
	DefaultClusters = 8
	DefaultSteps    = 200
	DefaultDensity  = 0.25

	// MaxSide bounds Width and Height.
	MaxSide = 4096
	// MaxWalk bounds Clusters*Steps.
	MaxWalk = 1 << 24
)

// ErrInvalidOptions is returned for negative or oversized sizes or a density
// outside [0, 1].
var ErrInvalidOptions = errors.New("invalid generate options")

func (o GenerateOptions) withDefaults() (GenerateOptions, error) {
	if o.Width < 0 || o.Height < 0 || o.Clusters < 0 || o.Steps < 0 {
		return o, fmt.Errorf("%w: negative size", ErrInvalidOptions)
	}
	if o.Density < 0 || o.Density > 1 {
		return o, fmt.Errorf("%w: density %v outside [0, 1]", ErrInvalidOptions, o.Density)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width > MaxSide || o.Height > MaxSide {
		return o, fmt.Errorf("%w: %dx%d exceeds %d per side", ErrInvalidOptions, o.Height, o.Width, MaxSide)
	}
	if o.Width*o.Height < 2 {
		return o, fmt.Errorf("%w: %dx%d has no room for start and goal", ErrInvalidOptions, o.Height, o.Width)
	}
	if o.Clusters == 0 {
		o.Clusters = DefaultClusters
	}
	if o.Steps == 0 {
		o.Steps = DefaultSteps
	}
	if o.Clusters > MaxWalk/o.Steps {
		return o, fmt.Errorf("%w: %d clusters of %d steps exceed %d walk steps", ErrInvalidOptions, o.Clusters, o.Steps, MaxWalk)
	}
	if o.Density == 0 {
		o.Density = DefaultDensity
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o, nil
}

// Generate builds a maze of clustered random walls. Each cluster is a random
// walk that drops a wall on the cells it visits with probability Density.
// Start and goal are distinct random cells and are never walls. The maze is
// not guaranteed to be solvable.
func Generate(opts GenerateOptions) (*Maze, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	r := rand.New(rand.NewSource(opts.Seed))

	randomCell := func() gridsearch.State {
		return gridsearch.State{Row: r.Intn(opts.Height), Col: r.Intn(opts.Width)}
	}
	start, goal := randomCell(), randomCell()
	for start == goal {
		goal = randomCell()
	}

	walls := make([][]bool, opts.Height)
	for i := range walls {
		walls[i] = make([]bool, opts.Width)
	}
	steps := []gridsearch.State{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}
	for c := 0; c < opts.Clusters; c++ {
		p := randomCell()
		for s := 0; s < opts.Steps; s++ {
			if r.Float64() < opts.Density && p != start && p != goal {
				walls[p.Row][p.Col] = true
			}
			d := steps[r.Intn(len(steps))]
			next := gridsearch.State{Row: p.Row + d.Row, Col: p.Col + d.Col}
			if next.Row >= 0 && next.Row < opts.Height && next.Col >= 0 && next.Col < opts.Width {
				p = next
			}
		}
	}

	grid, err := gridsearch.NewGrid(walls)
	if err != nil {
		return nil, err
	}
	return &Maze{Grid: grid, Start: start, Goal: goal}, nil
}
