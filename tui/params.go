// ABOUTME: Parameter manager for playback tuning
// ABOUTME: Handles delay and array size adjustments with boundary checking

package tui

import "sort-visualizer/config"

// Parameter names
const (
	paramDelay     = "Step Delay (ms)"
	paramArraySize = "Array Size"
)

// Parameter is a tunable integer setting with bounds
type Parameter struct {
	Name  string
	Value *int // points into the model's local config
	Min   int
	Max   int
	Step  int
}

// ParamManager manages parameter selection and adjustment
type ParamManager struct {
	params        []Parameter
	selectedIndex int
}

// NewParamManager creates a new parameter manager
func NewParamManager(params []Parameter) *ParamManager {
	return &ParamManager{
		params:        params,
		selectedIndex: 0,
	}
}

// newPlaybackParams builds the parameter list bound to cfg's fields
func newPlaybackParams(cfg *config.Config) []Parameter {
	return []Parameter{
		{Name: paramDelay, Value: &cfg.Playback.DelayMS, Min: 0, Max: 1000, Step: 5},
		{Name: paramArraySize, Value: &cfg.Array.Size, Min: 5, Max: 300, Step: 5},
	}
}

// Selected returns the index of the currently selected parameter
func (pm *ParamManager) Selected() int {
	return pm.selectedIndex
}

// SetSelected sets the selected parameter index
func (pm *ParamManager) SetSelected(index int) {
	if index >= 0 && index < len(pm.params) {
		pm.selectedIndex = index
	}
}

// SelectNext moves selection to the next parameter
func (pm *ParamManager) SelectNext() {
	if pm.selectedIndex < len(pm.params)-1 {
		pm.selectedIndex++
	}
}

// SelectPrevious moves selection to the previous parameter
func (pm *ParamManager) SelectPrevious() {
	if pm.selectedIndex > 0 {
		pm.selectedIndex--
	}
}

// Increase increases the selected parameter value
// Returns true if the value was changed
func (pm *ParamManager) Increase() bool {
	param := pm.GetSelected()
	if param == nil {
		return false
	}

	newVal := min(*param.Value+param.Step, param.Max)
	if newVal == *param.Value {
		return false
	}

	*param.Value = newVal

	return true
}

// Decrease decreases the selected parameter value
// Returns true if the value was changed
func (pm *ParamManager) Decrease() bool {
	param := pm.GetSelected()
	if param == nil {
		return false
	}

	newVal := max(*param.Value-param.Step, param.Min)
	if newVal == *param.Value {
		return false
	}

	*param.Value = newVal

	return true
}

// ResetToDefaults resets all parameters to their default values
// Uses name-based lookup so parameter order does not matter
func (pm *ParamManager) ResetToDefaults(defaults config.Config) {
	for i := range pm.params {
		p := &pm.params[i]
		switch p.Name {
		case paramDelay:
			*p.Value = defaults.Playback.DelayMS
		case paramArraySize:
			*p.Value = defaults.Array.Size
		}
	}
}

// Get returns the parameter at the given index
func (pm *ParamManager) Get(index int) *Parameter {
	if index >= 0 && index < len(pm.params) {
		return &pm.params[index]
	}

	return nil
}

// GetSelected returns the currently selected parameter
func (pm *ParamManager) GetSelected() *Parameter {
	return pm.Get(pm.selectedIndex)
}

// Len returns the number of parameters
func (pm *ParamManager) Len() int {
	return len(pm.params)
}

// All returns all parameters (for rendering)
func (pm *ParamManager) All() []Parameter {
	return pm.params
}
