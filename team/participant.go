// Package team defines the participants of a conversation and the roster
// that groups them for turn selection.
package team

import (
	"context"

	"github.com/tailored-agentic-units/roundtable/transcript"
)

// Capability flags what a participant may do during its turns.
type Capability int

const (
	// CapabilityNone marks a plain-response participant.
	CapabilityNone Capability = 0
	// CapabilityTools marks a participant that may call registered tools.
	CapabilityTools Capability = 1 << iota
	// CapabilityHumanProxy marks the participant whose invocation blocks on
	// an external human response. At most one per roster.
	CapabilityHumanProxy
)

// Has reports whether c includes the given capability.
func (c Capability) Has(flag Capability) bool {
	return c&flag != 0
}

// Participant is any actor that can be selected to produce one turn.
// Invoke receives a snapshot of the transcript so far and returns zero or
// more text fragments; the conversation loop concatenates them into a single
// turn record. Implementations must not retain or mutate the snapshot.
type Participant interface {
	// Name returns the participant's unique identity within a roster.
	Name() string
	// Description returns the participant's role description.
	Description() string
	// Capabilities returns the participant's capability flags.
	Capabilities() Capability
	// Invoke produces the participant's next turn from the transcript so far.
	Invoke(ctx context.Context, snapshot []transcript.TurnRecord) ([]string, error)
}
