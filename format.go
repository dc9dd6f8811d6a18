// ABOUTME: Text formatting helpers for step sequences and timings
// ABOUTME: Summarizes step kinds and parses user-supplied arrays

package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"sort-visualizer/step"
)

// kindOrder is the display order of step kinds
var kindOrder = []step.Kind{step.Compare, step.Swap, step.UpdateHeight, step.Sorted, step.Unknown}

// countKinds tallies steps by kind
func countKinds(steps []step.Step) map[step.Kind]int {
	counts := make(map[step.Kind]int, len(kindOrder))
	for _, s := range steps {
		counts[s.Kind]++
	}

	return counts
}

// formatKindCounts renders counts as "compare=3 swap=1 sorted=4", skipping zero kinds
func formatKindCounts(counts map[step.Kind]int) string {
	parts := make([]string, 0, len(kindOrder))

	for _, k := range kindOrder {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}

	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, " ")
}

// formatPlayback renders a playback length with millisecond precision at most
func formatPlayback(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}

	return d.Round(10 * time.Millisecond).String()
}

// parseValues parses "3, 1.5,2" into an array
func parseValues(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("no values given")
	}

	fields := strings.Split(s, ",")
	values := make([]float64, 0, len(fields))

	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", f, err)
		}

		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid value %q: must be finite", f)
		}

		if v < 0 {
			return nil, fmt.Errorf("invalid value %q: must not be negative", f)
		}

		values = append(values, v)
	}

	return values, nil
}
