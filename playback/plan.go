// ABOUTME: Pure schedule computation for a step sequence
// ABOUTME: Maps every step index to the offsets of its start and revert effects

package playback

import (
	"time"

	"sort-visualizer/step"
)

// Phase distinguishes the two effects of a compare or swap
type Phase int

const (
	// PhaseStart applies the step's effect
	PhaseStart Phase = iota
	// PhaseRevert clears the highlight one delay unit later
	PhaseRevert
)

func (p Phase) String() string {
	if p == PhaseRevert {
		return "revert"
	}

	return "start"
}

// Effect is one scheduled visual mutation
type Effect struct {
	Offset time.Duration
	Index  int // position of the step in the sequence
	Phase  Phase
	Step   step.Step
}

// Plan computes the effects of a step sequence.
// Step i starts at i*delay; compare and swap revert at i*delay+delay. The result is
// in firing order: ascending offset, and at equal offsets the earlier step first.
func Plan(steps []step.Step, delay time.Duration) []Effect {
	effects := make([]Effect, 0, len(steps)*2)

	for i, s := range steps {
		start := time.Duration(i) * delay
		effects = append(effects, Effect{Offset: start, Index: i, Phase: PhaseStart, Step: s})

		if s.TwoPhase() {
			effects = append(effects, Effect{Offset: start + delay, Index: i, Phase: PhaseRevert, Step: s})
		}
	}

	return effects
}

// CompletionOffset returns when a sequence of n steps completes: n*delay
func CompletionOffset(n int, delay time.Duration) time.Duration {
	return time.Duration(n) * delay
}
