// ABOUTME: Array model holding the values being visualized
// ABOUTME: Generates random arrays and is the source of truth handed to the step service

// Package array holds the value array that the visualizer sorts.
package array

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// ErrInvalidBounds is returned when the generation bounds are unusable
var ErrInvalidBounds = errors.New("array: invalid bounds")

// Model is the current array of values.
// It is replaced wholesale and never mutated in place.
type Model struct {
	values []float64
}

// New creates a model holding a copy of values
func New(values []float64) *Model {
	return &Model{values: slices.Clone(values)}
}

// Generate returns size uniformly random integral values in [minValue, maxValue)
func Generate(rng *rand.Rand, size int, minValue, maxValue float64) ([]float64, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidBounds, size)
	}

	// Integral values in [lo, hi) stay inside [minValue, maxValue) for fractional bounds too
	lo, hi := int(math.Ceil(minValue)), int(math.Ceil(maxValue))
	if minValue < 0 || lo >= hi {
		return nil, fmt.Errorf("%w: range [%v, %v)", ErrInvalidBounds, minValue, maxValue)
	}

	values := make([]float64, size)
	for i := range values {
		values[i] = float64(lo + rng.IntN(hi-lo))
	}

	return values, nil
}

// Generate replaces the array with size random values in [minValue, maxValue)
func (m *Model) Generate(rng *rand.Rand, size int, minValue, maxValue float64) error {
	values, err := Generate(rng, size, minValue, maxValue)
	if err != nil {
		return err
	}

	m.values = values

	return nil
}

// Replace installs a copy of values as the current array
func (m *Model) Replace(values []float64) {
	m.values = slices.Clone(values)
}

// Values returns a copy of the current array
func (m *Model) Values() []float64 {
	return slices.Clone(m.values)
}

// Len returns the number of elements
func (m *Model) Len() int {
	return len(m.values)
}

// Empty reports whether there is nothing to sort
func (m *Model) Empty() bool {
	return len(m.values) == 0
}
