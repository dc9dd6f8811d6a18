// ABOUTME: Tests for the visual registry
// ABOUTME: Covers layout math, color priority, swap involution, and bounds checks

package visual

import (
	"math"
	"testing"
)

func testSurface() Surface {
	return Surface{Width: 100, Height: 50, Margin: 1, MaxValue: 200}
}

func newTestRegistry(values ...float64) *Registry {
	r := NewRegistry(testSurface())
	r.Rebuild(values)

	return r
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRebuildLayout(t *testing.T) {
	r := newTestRegistry(200, 100, 50, 0)

	if r.Len() != 4 {
		t.Fatalf("Expected 4 bars, got %d", r.Len())
	}

	// 100/4 - 2*1 = 23
	if !approx(r.BarWidth(), 23) {
		t.Errorf("Expected bar width 23, got %v", r.BarWidth())
	}

	wantX := []float64{1, 26, 51, 76}
	wantH := []float64{50, 25, 12.5, 0}

	for i, h := range r.Handles() {
		if !approx(h.X, wantX[i]) {
			t.Errorf("Bar %d: X = %v, want %v", i, h.X, wantX[i])
		}

		if !approx(h.Height, wantH[i]) {
			t.Errorf("Bar %d: Height = %v, want %v", i, h.Height, wantH[i])
		}

		if h.Color != Normal {
			t.Errorf("Bar %d: expected normal color, got %v", i, h.Color)
		}

		if h.ID != i {
			t.Errorf("Bar %d: expected ID %d, got %d", i, i, h.ID)
		}
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	r := newTestRegistry(10, 20, 30)
	first := r.Handles()

	r.ApplySorted(1)
	r.ApplySwap(0, 2)
	r.Rebuild([]float64{10, 20, 30})

	second := r.Handles()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Bar %d differs after rebuild: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRebuildEmpty(t *testing.T) {
	r := newTestRegistry()

	if r.Len() != 0 {
		t.Errorf("Expected no bars, got %d", r.Len())
	}

	if r.BarWidth() != 0 {
		t.Errorf("Expected zero bar width, got %v", r.BarWidth())
	}

	r.ApplySwap(0, 1)
	r.ApplySorted(0)
}

func TestCompareStartEnd(t *testing.T) {
	r := newTestRegistry(10, 20, 30)

	r.ApplyCompareStart(0, 1)

	for _, i := range []int{0, 1} {
		if h, _ := r.At(i); h.Color != Comparing {
			t.Errorf("Bar %d: expected comparing, got %v", i, h.Color)
		}
	}

	if h, _ := r.At(2); h.Color != Normal {
		t.Errorf("Bar 2 should stay normal, got %v", h.Color)
	}

	r.ApplyCompareEnd(0, 1)

	for _, i := range []int{0, 1} {
		if h, _ := r.At(i); h.Color != Normal {
			t.Errorf("Bar %d: expected normal after revert, got %v", i, h.Color)
		}
	}
}

func TestSortedWinsOverCompareAndSwap(t *testing.T) {
	r := newTestRegistry(10, 20, 30)
	r.ApplySorted(0)

	r.ApplyCompareStart(0, 1)

	if h, _ := r.At(0); h.Color != SortedState {
		t.Errorf("Compare overwrote sorted: %v", h.Color)
	}

	if h, _ := r.At(1); h.Color != Comparing {
		t.Errorf("Bar 1: expected comparing, got %v", h.Color)
	}

	r.ApplyCompareEnd(0, 1)

	if h, _ := r.At(0); h.Color != SortedState {
		t.Errorf("Compare revert overwrote sorted: %v", h.Color)
	}

	r.ApplySwap(0, 2)

	// The sorted handle moved to index 2 and keeps its color
	if h, _ := r.At(2); h.Color != SortedState || h.ID != 0 {
		t.Errorf("Expected sorted handle 0 at index 2, got %+v", h)
	}

	if h, _ := r.At(0); h.Color != Swapping {
		t.Errorf("Bar at 0: expected swapping, got %v", h.Color)
	}

	r.ApplySwapEnd(0, 2)

	if h, _ := r.At(2); h.Color != SortedState {
		t.Errorf("Swap revert overwrote sorted: %v", h.Color)
	}
}

func TestSwapExchangesHandlesAndPositions(t *testing.T) {
	r := newTestRegistry(10, 20, 30)
	before := r.Handles()

	r.ApplySwap(0, 2)

	a, _ := r.At(0)
	b, _ := r.At(2)

	if a.ID != before[2].ID || b.ID != before[0].ID {
		t.Errorf("Handles not exchanged: got IDs %d,%d", a.ID, b.ID)
	}

	if !approx(a.X, before[0].X) || !approx(b.X, before[2].X) {
		t.Errorf("Positions should follow the slot: got %v,%v", a.X, b.X)
	}

	if a.Value != 30 || b.Value != 10 {
		t.Errorf("Values should travel with handles: got %v,%v", a.Value, b.Value)
	}
}

func TestSwapInvolution(t *testing.T) {
	r := newTestRegistry(10, 20, 30, 40)
	before := r.Handles()

	r.ApplySwap(1, 3)
	r.ApplySwap(1, 3)
	r.ApplySwapEnd(1, 3)

	after := r.Handles()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Bar %d: %+v != %+v", i, after[i], before[i])
		}
	}
}

func TestSwapSameIndex(t *testing.T) {
	r := newTestRegistry(10, 20)
	before, _ := r.At(1)

	r.ApplySwap(1, 1)

	after, _ := r.At(1)
	if after.ID != before.ID || after.X != before.X {
		t.Errorf("Identity swap changed handle: %+v", after)
	}
}

func TestHeightUpdate(t *testing.T) {
	r := newTestRegistry(10, 20)

	r.ApplyHeightUpdate(1, 100)

	if h, _ := r.At(1); h.Value != 100 || !approx(h.Height, 25) {
		t.Errorf("Unexpected handle after update: %+v", h)
	}

	r.ApplyHeightUpdate(0, 500)

	if h, _ := r.At(0); h.Value != 200 || !approx(h.Height, 50) {
		t.Errorf("Expected clamp to max value, got %+v", h)
	}

	r.ApplyHeightUpdate(0, -5)

	if h, _ := r.At(0); h.Value != 0 {
		t.Errorf("Expected clamp to zero, got %+v", h)
	}
}

func TestOutOfRangeIsNoOp(t *testing.T) {
	r := newTestRegistry(10, 20, 30)
	before := r.Handles()

	r.ApplyCompareStart(-1, 1)
	r.ApplyCompareEnd(0, 3)
	r.ApplySwap(0, 99)
	r.ApplySwapEnd(-4, 0)
	r.ApplyHeightUpdate(3, 50)
	r.ApplySorted(-1)

	after := r.Handles()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Bar %d changed: %+v", i, after[i])
		}
	}

	if _, ok := r.At(3); ok {
		t.Error("At(3) should report false")
	}
}

func TestAllSorted(t *testing.T) {
	r := newTestRegistry(10, 20, 30)

	for i := range r.Len() {
		r.ApplySorted(i)
	}

	if !r.AllSorted() {
		t.Error("Expected every bar sorted")
	}

	r.ResetColors()

	if r.AllSorted() {
		t.Error("Expected colors reset")
	}
}

func TestResizeKeepsState(t *testing.T) {
	r := newTestRegistry(10, 20, 30)
	r.ApplySwap(0, 2)
	r.ApplySorted(1)

	r.Resize(Surface{Width: 300, Height: 100, Margin: 1, MaxValue: 200})

	// 300/3 - 2 = 98
	if !approx(r.BarWidth(), 98) {
		t.Errorf("Expected bar width 98, got %v", r.BarWidth())
	}

	h0, _ := r.At(0)
	if h0.ID != 2 || h0.Value != 30 || !approx(h0.X, 1) || !approx(h0.Height, 15) {
		t.Errorf("Unexpected bar 0 after resize: %+v", h0)
	}

	h1, _ := r.At(1)
	if h1.Color != SortedState || !approx(h1.X, 101) {
		t.Errorf("Unexpected bar 1 after resize: %+v", h1)
	}
}
