// ABOUTME: Step events produced by a sorting algorithm and consumed by playback
// ABOUTME: Defines the step kinds and the request/response contract of the step service

// Package step defines the sorting step events and the step service data contract.
package step

import (
	"context"
	"fmt"
)

// Kind discriminates the step variants
type Kind int

// Step kinds. Unknown marks an entry the decoder could not interpret; it keeps its
// slot in the sequence but has no visual effect.
const (
	Unknown Kind = iota
	Compare
	Swap
	UpdateHeight
	Sorted
)

// Wire names used by the step service
const (
	wireCompare      = "compare"
	wireSwap         = "swap"
	wireUpdateHeight = "update_height"
	wireSorted       = "sorted"
)

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case Compare:
		return wireCompare
	case Swap:
		return wireSwap
	case UpdateHeight:
		return wireUpdateHeight
	case Sorted:
		return wireSorted
	default:
		return "unknown"
	}
}

// ParseKind maps a wire name to a Kind, returning Unknown for anything else
func ParseKind(s string) Kind {
	switch s {
	case wireCompare:
		return Compare
	case wireSwap:
		return Swap
	case wireUpdateHeight:
		return UpdateHeight
	case wireSorted:
		return Sorted
	default:
		return Unknown
	}
}

// Step is one immutable mutation event.
//
// Compare and Swap use Indices. UpdateHeight uses Index and NewValue. Sorted uses Index.
type Step struct {
	Kind     Kind
	Indices  [2]int
	Index    int
	NewValue float64
	// Reason is set on Unknown steps to describe why the entry was not understood
	Reason string
}

// NewCompare creates a compare step for indices i and j
func NewCompare(i, j int) Step {
	return Step{Kind: Compare, Indices: [2]int{i, j}}
}

// NewSwap creates a swap step for indices i and j
func NewSwap(i, j int) Step {
	return Step{Kind: Swap, Indices: [2]int{i, j}}
}

// NewUpdateHeight creates a height update step for index i
func NewUpdateHeight(i int, value float64) Step {
	return Step{Kind: UpdateHeight, Index: i, NewValue: value}
}

// NewSorted creates a sorted marker step for index i
func NewSorted(i int) Step {
	return Step{Kind: Sorted, Index: i}
}

// TwoPhase reports whether the step has a revert effect one delay unit after its start
func (s Step) TwoPhase() bool {
	return s.Kind == Compare || s.Kind == Swap
}

func (s Step) String() string {
	switch s.Kind {
	case Compare, Swap:
		return fmt.Sprintf("%s(%d,%d)", s.Kind, s.Indices[0], s.Indices[1])
	case UpdateHeight:
		return fmt.Sprintf("%s(%d=%g)", s.Kind, s.Index, s.NewValue)
	case Sorted:
		return fmt.Sprintf("%s(%d)", s.Kind, s.Index)
	default:
		return "unknown(" + s.Reason + ")"
	}
}

// Request is what the client sends to the step service
type Request struct {
	Array     []float64 `json:"array"`
	Algorithm string    `json:"algorithm"`
}

// Response is the decoded reply of the step service
type Response struct {
	Steps []Step
	// SimulatedDuration is the algorithm run time reported by the service, in milliseconds
	SimulatedDuration float64
	// Skipped counts entries decoded as Unknown
	Skipped int
}

// Producer returns the ordered steps for sorting an array with an algorithm
type Producer interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// ProducerFunc adapts a function to the Producer interface
type ProducerFunc func(ctx context.Context, req Request) (Response, error)

// Fetch calls f(ctx, req)
func (f ProducerFunc) Fetch(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
