package team

import (
	"fmt"
)

// Roster is the immutable set of participants for one conversation, with one
// of them designated as the orchestrator. Built once per session via
// NewRoster; participants are never added or removed afterwards.
type Roster struct {
	participants []Participant
	byName       map[string]Participant
	orchestrator string
	humanProxy   string
}

// NewRoster validates and builds a roster. The orchestrator name must match
// one of the participants, names must be unique, and at most one participant
// may carry the human-proxy capability.
func NewRoster(orchestrator string, participants ...Participant) (*Roster, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyRoster
	}

	r := &Roster{
		participants: participants,
		byName:       make(map[string]Participant, len(participants)),
		orchestrator: orchestrator,
	}

	for _, p := range participants {
		name := p.Name()
		if _, exists := r.byName[name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		r.byName[name] = p

		if p.Capabilities().Has(CapabilityHumanProxy) {
			if r.humanProxy != "" {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleHumanProxies, r.humanProxy, name)
			}
			r.humanProxy = name
		}
	}

	if _, exists := r.byName[orchestrator]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoOrchestrator, orchestrator)
	}

	return r, nil
}

// Get returns the participant with the given name.
func (r *Roster) Get(name string) (Participant, error) {
	p, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrParticipantNotFound, name)
	}
	return p, nil
}

// Participants returns the roster members in registration order.
func (r *Roster) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Orchestrator returns the designated orchestrator's name.
func (r *Roster) Orchestrator() string {
	return r.orchestrator
}

// HumanProxy returns the human-proxy participant's name, or "" if the roster
// has none.
func (r *Roster) HumanProxy() string {
	return r.humanProxy
}

// Len returns the number of participants.
func (r *Roster) Len() int {
	return len(r.participants)
}
