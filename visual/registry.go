// ABOUTME: Visual registry mapping logical array indices to rendered bar handles
// ABOUTME: Applies step effects as geometry and color changes without touching the array model

// Package visual maintains the on-screen bars that mirror the array during playback.
//
// The registry owns every Handle. Callers address bars by logical index only; a
// swap exchanges which handle sits at two indices, so handles are never cloned or
// destroyed while a session runs. A bar marked sorted stays sorted: compare and
// swap highlights never overwrite it.
package visual

// ColorState is the color token of a bar
type ColorState int

// Color states in increasing priority. Sorted is terminal for a session.
const (
	Normal ColorState = iota
	Comparing
	Swapping
	SortedState
)

func (c ColorState) String() string {
	switch c {
	case Comparing:
		return "compare"
	case Swapping:
		return "swap"
	case SortedState:
		return "sorted"
	default:
		return "normal"
	}
}

// Surface describes the container the bars are laid out in
type Surface struct {
	Width    float64
	Height   float64
	Margin   float64 // space on each side of a bar
	MaxValue float64 // value that maps to the full container height
}

// Handle is one rendered bar
type Handle struct {
	ID     int // stable identity, the index the bar was created at
	Value  float64
	Height float64
	X      float64
	Width  float64
	Color  ColorState
}

// Renderer is the set of visual effects a playback session needs
type Renderer interface {
	Rebuild(values []float64)
	ApplyCompareStart(i, j int)
	ApplyCompareEnd(i, j int)
	ApplySwap(i, j int)
	ApplySwapEnd(i, j int)
	ApplyHeightUpdate(i int, value float64)
	ApplySorted(i int)
}

// Registry is the index-addressable sequence of bar handles
type Registry struct {
	surface Surface
	handles []*Handle
}

var _ Renderer = (*Registry)(nil)

// NewRegistry creates an empty registry for a surface
func NewRegistry(surface Surface) *Registry {
	return &Registry{surface: surface}
}

// Surface returns the current container geometry
func (r *Registry) Surface() Surface {
	return r.surface
}

// Rebuild discards all handles and creates one normal bar per value
func (r *Registry) Rebuild(values []float64) {
	r.handles = make([]*Handle, len(values))
	for i, v := range values {
		r.handles[i] = &Handle{ID: i, Value: v, Color: Normal}
	}

	r.layout()
}

// Resize recomputes the geometry of the existing bars for a new surface.
// Index mapping, colors, and current values are kept.
func (r *Registry) Resize(surface Surface) {
	r.surface = surface
	r.layout()
}

// layout positions every handle from its current slot and value
func (r *Registry) layout() {
	n := len(r.handles)
	if n == 0 {
		return
	}

	barWidth := r.BarWidth()
	for i, h := range r.handles {
		h.Width = barWidth
		h.X = r.slotX(i)
		h.Height = r.heightFor(h.Value)
	}
}

// BarWidth returns the width of one bar: W/N minus both margins, floored at zero
func (r *Registry) BarWidth() float64 {
	n := len(r.handles)
	if n == 0 {
		return 0
	}

	w := r.surface.Width/float64(n) - 2*r.surface.Margin
	if w < 0 {
		return 0
	}

	return w
}

func (r *Registry) slotX(i int) float64 {
	return float64(i)*(r.BarWidth()+2*r.surface.Margin) + r.surface.Margin
}

func (r *Registry) heightFor(value float64) float64 {
	if r.surface.MaxValue <= 0 {
		return 0
	}

	return value / r.surface.MaxValue * r.surface.Height
}

// Len returns the number of bars
func (r *Registry) Len() int {
	return len(r.handles)
}

// At returns a copy of the handle at index i
func (r *Registry) At(i int) (Handle, bool) {
	if !r.valid(i) {
		return Handle{}, false
	}

	return *r.handles[i], true
}

// Handles returns copies of all handles in index order
func (r *Registry) Handles() []Handle {
	out := make([]Handle, len(r.handles))
	for i, h := range r.handles {
		out[i] = *h
	}

	return out
}

// Values returns the current bar values in index order
func (r *Registry) Values() []float64 {
	out := make([]float64, len(r.handles))
	for i, h := range r.handles {
		out[i] = h.Value
	}

	return out
}

func (r *Registry) valid(i int) bool {
	return i >= 0 && i < len(r.handles)
}

// setColor changes a bar's color unless it is already sorted
func (r *Registry) setColor(i int, c ColorState) {
	if h := r.handles[i]; h.Color != SortedState {
		h.Color = c
	}
}

// ApplyCompareStart highlights the bars at i and j as being compared
func (r *Registry) ApplyCompareStart(i, j int) {
	if !r.valid(i) || !r.valid(j) {
		return
	}

	r.setColor(i, Comparing)
	r.setColor(j, Comparing)
}

// ApplyCompareEnd reverts the compare highlight at i and j
func (r *Registry) ApplyCompareEnd(i, j int) {
	if !r.valid(i) || !r.valid(j) {
		return
	}

	r.setColor(i, Normal)
	r.setColor(j, Normal)
}

// ApplySwap exchanges the bars at i and j.
// Positions are swapped first, then the registry slots, so applying the same
// swap twice restores the original layout.
func (r *Registry) ApplySwap(i, j int) {
	if !r.valid(i) || !r.valid(j) {
		return
	}

	a, b := r.handles[i], r.handles[j]
	a.X, b.X = b.X, a.X
	r.handles[i], r.handles[j] = b, a

	r.setColor(i, Swapping)
	r.setColor(j, Swapping)
}

// ApplySwapEnd reverts the swap highlight at i and j
func (r *Registry) ApplySwapEnd(i, j int) {
	if !r.valid(i) || !r.valid(j) {
		return
	}

	r.setColor(i, Normal)
	r.setColor(j, Normal)
}

// ApplyHeightUpdate sets the value of the bar at i, clamped to [0, MaxValue]
func (r *Registry) ApplyHeightUpdate(i int, value float64) {
	if !r.valid(i) {
		return
	}

	value = max(0, value)
	if r.surface.MaxValue > 0 {
		value = min(value, r.surface.MaxValue)
	}

	h := r.handles[i]
	h.Value = value
	h.Height = r.heightFor(value)
}

// ApplySorted marks the bar at i as sorted for the rest of the session
func (r *Registry) ApplySorted(i int) {
	if !r.valid(i) {
		return
	}

	r.handles[i].Color = SortedState
}

// ResetColors returns every bar to normal
func (r *Registry) ResetColors() {
	for _, h := range r.handles {
		h.Color = Normal
	}
}

// AllSorted reports whether every bar is marked sorted
func (r *Registry) AllSorted() bool {
	for _, h := range r.handles {
		if h.Color != SortedState {
			return false
		}
	}

	return true
}
