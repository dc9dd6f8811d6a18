// ABOUTME: Tests for bar chart rendering
// ABOUTME: Checks column mapping and eighth-block fills without depending on terminal colors

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"sort-visualizer/visual"
)

func init() {
	// Plain output so assertions can compare glyphs
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestCellFill(t *testing.T) {
	tests := []struct {
		height float64
		level  int
		want   int
	}{
		{0, 0, 0},
		{3, 0, 3},
		{8, 0, 8},
		{12, 0, 8},
		{12, 1, 4},
		{12, 2, 0},
		{7.6, 0, 8},
	}

	for _, tt := range tests {
		if got := cellFill(tt.height, tt.level); got != tt.want {
			t.Errorf("cellFill(%v, %d) = %d, want %d", tt.height, tt.level, got, tt.want)
		}
	}
}

func TestLayoutColumns(t *testing.T) {
	reg := visual.NewRegistry(barSurface(6, 2, 0, 100))
	reg.Rebuild([]float64{50, 100, 25})

	cols := layoutColumns(reg.Handles(), 6)

	wantHeights := []float64{8, 8, 16, 16, 4, 4}
	for i, want := range wantHeights {
		if !cols[i].filled {
			t.Fatalf("column %d is empty", i)
		}

		if cols[i].height != want {
			t.Errorf("column %d height = %v, want %v", i, cols[i].height, want)
		}
	}
}

func TestRenderBars(t *testing.T) {
	reg := visual.NewRegistry(barSurface(3, 2, 0, 100))
	reg.Rebuild([]float64{50, 100, 25})

	got := renderBars(reg.Handles(), 3, 2)
	lines := strings.Split(got, "\n")

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), got)
	}

	if lines[0] != " █ " {
		t.Errorf("top row = %q, want %q", lines[0], " █ ")
	}

	if lines[1] != "██▄" {
		t.Errorf("bottom row = %q, want %q", lines[1], "██▄")
	}
}

func TestRenderBarsGroupsColors(t *testing.T) {
	reg := visual.NewRegistry(barSurface(4, 1, 0, 100))
	reg.Rebuild([]float64{100, 100, 100, 100})
	reg.ApplyCompareStart(1, 2)
	reg.ApplySorted(3)

	got := renderBars(reg.Handles(), 4, 1)
	if got != "████" {
		t.Errorf("render = %q, want four full blocks", got)
	}
}

func TestRenderBarsEmpty(t *testing.T) {
	if got := renderBars(nil, 0, 5); got != "" {
		t.Errorf("zero columns should render nothing, got %q", got)
	}

	got := renderBars(nil, 3, 2)
	if got != "   \n   " {
		t.Errorf("no handles should render blank rows, got %q", got)
	}
}
