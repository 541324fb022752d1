package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/pdrpinto/gridsearch/maze"
)

const (
	DefaultCellSize = 50
	DefaultBorder   = 2
)

// ImageOptions controls PNG output. Zero sizes take the defaults; a
// negative Border draws cells edge to edge.
type ImageOptions struct {
	Options
	CellSize int
	Border   int
}

// Image draws each cell as a filled square inset by Border on a black background.
func Image(m *maze.Maze, marks Marks, opts ImageOptions) *image.RGBA {
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	switch {
	case opts.Border == 0:
		opts.Border = DefaultBorder
	case opts.Border < 0:
		opts.Border = 0
	}
	if opts.Border*2 >= opts.CellSize {
		opts.Border = 0
	}

	width, height := m.Grid.Width()*opts.CellSize, m.Grid.Height()*opts.CellSize
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	for i, row := range Classify(m, marks, opts.Options) {
		for j, kind := range row {
			cell := image.Rect(
				j*opts.CellSize+opts.Border,
				i*opts.CellSize+opts.Border,
				(j+1)*opts.CellSize-opts.Border+1,
				(i+1)*opts.CellSize-opts.Border+1,
			).Intersect(image.Rect(j*opts.CellSize, i*opts.CellSize, (j+1)*opts.CellSize, (i+1)*opts.CellSize))
			draw.Draw(img, cell, &image.Uniform{C: Palette[kind]}, image.Point{}, draw.Src)
		}
	}
	return img
}

// PNG encodes Image to w.
func PNG(w io.Writer, m *maze.Maze, marks Marks, opts ImageOptions) error {
	if err := png.Encode(w, Image(m, marks, opts)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the image to path.
func SavePNG(path string, m *maze.Maze, marks Marks, opts ImageOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := PNG(f, m, marks, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
