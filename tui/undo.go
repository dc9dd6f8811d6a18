// ABOUTME: Undo/redo history of generated arrays
// ABOUTME: Lets an earlier array be replayed with a different algorithm

package tui

import "slices"

// ArrayState captures an array and the algorithm that was selected with it
type ArrayState struct {
	Values    []float64
	Algorithm string
}

func (s ArrayState) clone() ArrayState {
	return ArrayState{
		Values:    slices.Clone(s.Values),
		Algorithm: s.Algorithm,
	}
}

// UndoManager manages undo/redo stacks with maximum size limit
type UndoManager struct {
	undoStack []ArrayState
	redoStack []ArrayState
	maxSize   int
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager(maxSize int) *UndoManager {
	return &UndoManager{
		undoStack: []ArrayState{},
		redoStack: []ArrayState{},
		maxSize:   maxSize,
	}
}

// Push saves a new state to the undo stack
// Clears the redo stack (you can't redo after a new array is generated)
func (um *UndoManager) Push(state ArrayState) {
	um.undoStack = append(um.undoStack, state.clone())

	if len(um.undoStack) > um.maxSize {
		um.undoStack = um.undoStack[1:]
	}

	um.redoStack = []ArrayState{}
}

// Undo restores the previous state
// Returns the state and true if undo was successful, or zero value and false if nothing to undo
func (um *UndoManager) Undo(currentState ArrayState) (ArrayState, bool) {
	if len(um.undoStack) == 0 {
		return ArrayState{}, false
	}

	um.redoStack = append(um.redoStack, currentState.clone())
	if len(um.redoStack) > um.maxSize {
		um.redoStack = um.redoStack[1:]
	}

	state := um.undoStack[len(um.undoStack)-1]
	um.undoStack = um.undoStack[:len(um.undoStack)-1]

	return state, true
}

// Redo restores the next state
// Returns the state and true if redo was successful, or zero value and false if nothing to redo
func (um *UndoManager) Redo(currentState ArrayState) (ArrayState, bool) {
	if len(um.redoStack) == 0 {
		return ArrayState{}, false
	}

	um.undoStack = append(um.undoStack, currentState.clone())
	if len(um.undoStack) > um.maxSize {
		um.undoStack = um.undoStack[1:]
	}

	state := um.redoStack[len(um.redoStack)-1]
	um.redoStack = um.redoStack[:len(um.redoStack)-1]

	return state, true
}

// UndoSize returns the number of items in the undo stack
func (um *UndoManager) UndoSize() int {
	return len(um.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (um *UndoManager) RedoSize() int {
	return len(um.redoStack)
}

// Clear clears both stacks
func (um *UndoManager) Clear() {
	um.undoStack = []ArrayState{}
	um.redoStack = []ArrayState{}
}
