// ABOUTME: Tests for step summary formatting and value parsing
// ABOUTME: Covers kind ordering, empty input, and malformed arrays

package main

import (
	"testing"
	"time"

	"sort-visualizer/step"
)

func TestFormatKindCounts(t *testing.T) {
	tests := []struct {
		name  string
		steps []step.Step
		want  string
	}{
		{"empty", nil, "-"},
		{"single kind", []step.Step{step.NewSorted(0), step.NewSorted(1)}, "sorted=2"},
		{
			"display order",
			[]step.Step{
				step.NewSorted(1),
				step.NewSwap(0, 1),
				step.NewCompare(0, 1),
				step.NewCompare(1, 2),
				step.NewUpdateHeight(0, 5),
				{Kind: step.Unknown},
			},
			"compare=2 swap=1 update_height=1 sorted=1 unknown=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatKindCounts(countKinds(tt.steps)); got != tt.want {
				t.Errorf("formatKindCounts() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPlayback(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Millisecond, "30ms"},
		{1234567 * time.Microsecond, "1.23s"},
	}

	for _, tt := range tests {
		if got := formatPlayback(tt.in); got != tt.want {
			t.Errorf("formatPlayback(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseValues(t *testing.T) {
	got, err := parseValues(" 3, 1.5,2 ")
	if err != nil {
		t.Fatalf("parseValues: %v", err)
	}

	want := []float64{3, 1.5, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}

	for _, bad := range []string{"", "1,,2", "a,b", "1,-2", "NaN", "1,+Inf", "-Inf", "1e400"} {
		if _, err := parseValues(bad); err == nil {
			t.Errorf("parseValues(%q) should fail", bad)
		}
	}
}
