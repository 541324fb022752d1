package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdrpinto/gridsearch/maze"
)

var glyphs = map[CellKind]rune{
	Wall:     '█',
	Start:    'A',
	Goal:     'B',
	Path:     '*',
	Explored: '·',
	Empty:    ' ',
}

// Glyph returns the text character for k.
func Glyph(k CellKind) rune { return glyphs[k] }

// Text writes one line per grid row.
func Text(w io.Writer, m *maze.Maze, marks Marks, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, row := range Classify(m, marks, opts) {
		for _, kind := range row {
			bw.WriteRune(glyphs[kind])
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write maze: %w", err)
	}
	return nil
}

// TextString is Text into a string.
func TextString(m *maze.Maze, marks Marks, opts Options) string {
	var b strings.Builder
	_ = Text(&b, m, marks, opts)
	return b.String()
}

var cellStyles = func() map[CellKind]lipgloss.Style {
	styles := make(map[CellKind]lipgloss.Style, len(Palette))
	for kind, c := range Palette {
		hex := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
		styles[kind] = lipgloss.NewStyle().Background(hex).Foreground(lipgloss.Color("0"))
	}
	return styles
}()

// Styled renders the maze as coloured blocks, two columns per cell so cells
// come out roughly square.
func Styled(m *maze.Maze, marks Marks, opts Options) string {
	var b strings.Builder
	for _, row := range Classify(m, marks, opts) {
		for _, kind := range row {
			label := "  "
			switch kind {
			case Start:
				label = "A "
			case Goal:
				label = "B "
			}
			b.WriteString(cellStyles[kind].Render(label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
