// ABOUTME: The fixed set of sorting algorithms the step service understands
// ABOUTME: Carries display names and complexity figures shown next to the bars

package app

import (
	"fmt"
	"strings"
)

// Algorithm describes one supported sorting algorithm
type Algorithm struct {
	ID    string // wire name sent to the step service
	Name  string
	Time  string // time complexity
	Space string // space complexity
}

var algorithms = []Algorithm{
	{ID: "BubbleSort", Name: "Bubble Sort", Time: "O(N²)", Space: "O(1)"},
	{ID: "MergeSort", Name: "Merge Sort", Time: "O(N log N)", Space: "O(N)"},
	{ID: "QuickSort", Name: "Quick Sort", Time: "O(N log N)", Space: "O(log N)"},
}

// Algorithms returns the supported algorithms in display order
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)

	return out
}

// ParseAlgorithm looks an algorithm up by ID or display name, ignoring case and spaces
func ParseAlgorithm(s string) (Algorithm, error) {
	key := normalize(s)

	for _, a := range algorithms {
		if normalize(a.ID) == key || normalize(a.Name) == key {
			return a, nil
		}
	}

	return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// Next returns the algorithm after a in display order, wrapping around
func (a Algorithm) Next() Algorithm {
	for i, candidate := range algorithms {
		if candidate.ID == a.ID {
			return algorithms[(i+1)%len(algorithms)]
		}
	}

	return algorithms[0]
}
