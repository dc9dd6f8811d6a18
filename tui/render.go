// ABOUTME: Bar chart rendering for the terminal
// ABOUTME: Maps registry handles onto character cells using eighth-block glyphs

package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sort-visualizer/visual"
)

// eighthsPerRow is the vertical resolution of one terminal row
const eighthsPerRow = 8

// blocks indexed by how many eighths of the cell are filled
var blocks = []rune(" ▁▂▃▄▅▆▇█")

var barColors = map[visual.ColorState]lipgloss.Color{
	visual.Normal:      lipgloss.Color("69"),
	visual.Comparing:   lipgloss.Color("220"),
	visual.Swapping:    lipgloss.Color("196"),
	visual.SortedState: lipgloss.Color("42"),
}

// column is what one terminal column shows
type column struct {
	height float64 // in eighths of a row
	color  visual.ColorState
	filled bool
}

// barSurface returns the registry geometry for a bar area of cols x rows cells
func barSurface(cols, rows int, margin, maxValue float64) visual.Surface {
	return visual.Surface{
		Width:    float64(cols),
		Height:   float64(rows * eighthsPerRow),
		Margin:   margin,
		MaxValue: maxValue,
	}
}

// layoutColumns assigns each handle to the columns it covers. Later handles win overlaps.
func layoutColumns(handles []visual.Handle, cols int) []column {
	out := make([]column, cols)

	for _, h := range handles {
		if h.Width <= 0 {
			continue
		}

		start := int(math.Floor(h.X))
		end := int(math.Ceil(h.X + h.Width))
		if end <= start {
			end = start + 1
		}

		for c := max(start, 0); c < min(end, cols); c++ {
			out[c] = column{height: h.Height, color: h.Color, filled: true}
		}
	}

	return out
}

// cellFill returns how many eighths of the cell at level (0 = bottom row) are filled
func cellFill(height float64, level int) int {
	units := int(math.Round(height)) - level*eighthsPerRow

	return max(0, min(units, eighthsPerRow))
}

// renderBars draws the handles into rows lines of cols cells
func renderBars(handles []visual.Handle, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	columns := layoutColumns(handles, cols)

	var b strings.Builder

	for r := range rows {
		level := rows - 1 - r

		var run strings.Builder

		runColor := visual.ColorState(-1)

		flush := func() {
			if run.Len() == 0 {
				return
			}

			if color, ok := barColors[runColor]; ok {
				b.WriteString(lipgloss.NewStyle().Foreground(color).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}

			run.Reset()
		}

		for _, col := range columns {
			fill := 0
			if col.filled {
				fill = cellFill(col.height, level)
			}

			color := col.color
			if fill == 0 {
				color = visual.ColorState(-1)
			}

			if color != runColor {
				flush()
				runColor = color
			}

			run.WriteRune(blocks[fill])
		}

		flush()

		if r < rows-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}
