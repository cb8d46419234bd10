package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lsaver/pkg/turtle"
)

// shades maps cell intensity to glyphs, faintest first.
var shades = []rune(" .:-=+*#%@")

// cell is one character of the terminal canvas.
type cell struct {
	intensity float64
	color     turtle.Color
}

// canvas rasterizes turtle segments onto a character grid. Strokes add
// intensity; fades multiply it down, mirroring the translucent overlay of
// the window renderer.
type canvas struct {
	cols, rows int
	viewport   turtle.Viewport
	cells      []cell
}

func newCanvas(cols, rows int, vp turtle.Viewport) *canvas {
	cv := &canvas{viewport: vp}
	cv.resize(cols, rows)
	return cv
}

// resize discards the drawing and allocates a cols x rows grid.
func (cv *canvas) resize(cols, rows int) {
	cv.cols, cv.rows = max(cols, 1), max(rows, 1)
	cv.cells = make([]cell, cv.cols*cv.rows)
}

// cellAt maps a viewport point to grid coordinates.
func (cv *canvas) cellAt(p turtle.Point) (int, int) {
	x := int(p.X / cv.viewport.Width * float64(cv.cols))
	y := int(p.Y / cv.viewport.Height * float64(cv.rows))
	return min(max(x, 0), cv.cols-1), min(max(y, 0), cv.rows-1)
}

// stroke draws s, sampling one point per crossed cell.
func (cv *canvas) stroke(s turtle.Segment) {
	x0, y0 := cv.cellAt(s.From)
	x1, y1 := cv.cellAt(s.To)
	steps := max(abs(x1-x0), abs(y1-y0), 1)
	weight := 1.0
	if s.Preview {
		weight = 0.4
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x0) + t*float64(x1-x0)))
		y := int(math.Round(float64(y0) + t*float64(y1-y0)))
		c := &cv.cells[y*cv.cols+x]
		c.intensity = math.Min(1, c.intensity+weight*s.Color.A)
		c.color = s.Color
	}
}

// fade dims every cell by the overlay's alpha.
func (cv *canvas) fade(alpha float64) {
	keep := 1 - alpha
	for i := range cv.cells {
		cv.cells[i].intensity *= keep
	}
}

// render returns the grid as styled text, grouping runs that share a colour.
func (cv *canvas) render() string {
	var b strings.Builder
	for y := 0; y < cv.rows; y++ {
		var run strings.Builder
		var runColor string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for x := 0; x < cv.cols; x++ {
			c := cv.cells[y*cv.cols+x]
			glyph := shade(c.intensity)
			color := ""
			if glyph != ' ' {
				color = c.color.Hex()
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(glyph)
		}
		flush()
		if y < cv.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func shade(intensity float64) rune {
	i := int(intensity * float64(len(shades)))
	return shades[min(max(i, 0), len(shades)-1)]
}

func lipglossColor(c turtle.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
