// ABOUTME: JSON wire codec for step service responses
// ABOUTME: Decodes step entries one at a time so a bad entry never sinks the whole response

package step

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrMalformedResponse is returned when the response body is not a JSON object
var ErrMalformedResponse = errors.New("step: malformed response")

// Wire is the serialized form of a step.
// Indices, Index and NewValue are pointers so absent fields can be told apart from zero.
type Wire struct {
	Type     string   `json:"type" yaml:"type"`
	Indices  []int    `json:"indices,omitempty" yaml:"indices,omitempty,flow"`
	Index    *int     `json:"index,omitempty" yaml:"index,omitempty"`
	NewValue *float64 `json:"newValue,omitempty" yaml:"newValue,omitempty"`
}

// responseEnvelope keeps each step raw until it is decoded on its own
type responseEnvelope struct {
	Steps             []json.RawMessage `json:"steps"`
	SimulatedDuration float64           `json:"simulatedDuration"`
}

// DecodeResponse parses a step service response body.
// A missing steps field decodes as an empty sequence. Entries that cannot be
// interpreted become Unknown steps in place.
func DecodeResponse(body []byte) (Response, error) {
	var env responseEnvelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	resp := Response{
		Steps:             make([]Step, 0, len(env.Steps)),
		SimulatedDuration: env.SimulatedDuration,
	}

	for _, raw := range env.Steps {
		var w Wire

		s := Step{Kind: Unknown}
		if err := sonic.Unmarshal(raw, &w); err != nil {
			s.Reason = "undecodable entry"
		} else {
			s = FromWire(w)
		}

		if s.Kind == Unknown {
			resp.Skipped++
		}

		resp.Steps = append(resp.Steps, s)
	}

	return resp, nil
}

// FromWire validates a wire entry and converts it to a Step
func FromWire(w Wire) Step {
	kind := ParseKind(w.Type)

	switch kind {
	case Compare, Swap:
		if len(w.Indices) != 2 {
			return Step{Kind: Unknown, Reason: fmt.Sprintf("%s needs 2 indices, got %d", w.Type, len(w.Indices))}
		}

		return Step{Kind: kind, Indices: [2]int{w.Indices[0], w.Indices[1]}}

	case UpdateHeight:
		if w.Index == nil || w.NewValue == nil {
			return Step{Kind: Unknown, Reason: "update_height needs index and newValue"}
		}

		return NewUpdateHeight(*w.Index, *w.NewValue)

	case Sorted:
		if w.Index == nil {
			return Step{Kind: Unknown, Reason: "sorted needs index"}
		}

		return NewSorted(*w.Index)

	default:
		return Step{Kind: Unknown, Reason: fmt.Sprintf("unknown type %q", w.Type)}
	}
}

// ToWire converts a Step to its serialized form. Unknown steps keep only their type.
func ToWire(s Step) Wire {
	w := Wire{Type: s.Kind.String()}

	switch s.Kind {
	case Compare, Swap:
		w.Indices = []int{s.Indices[0], s.Indices[1]}
	case UpdateHeight:
		idx, v := s.Index, s.NewValue
		w.Index = &idx
		w.NewValue = &v
	case Sorted:
		idx := s.Index
		w.Index = &idx
	}

	return w
}

// ToWireAll converts a step sequence for serialization
func ToWireAll(steps []Step) []Wire {
	out := make([]Wire, len(steps))
	for i, s := range steps {
		out[i] = ToWire(s)
	}

	return out
}
