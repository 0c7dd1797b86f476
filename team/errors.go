package team

import "errors"

var (
	// ErrEmptyRoster is returned when a roster is built with no participants.
	ErrEmptyRoster = errors.New("roster has no participants")

	// ErrDuplicateName is returned when two participants share a name.
	ErrDuplicateName = errors.New("duplicate participant name")

	// ErrNoOrchestrator is returned when the designated orchestrator is not
	// part of the roster.
	ErrNoOrchestrator = errors.New("orchestrator not in roster")

	// ErrMultipleHumanProxies is returned when more than one participant
	// carries the human-proxy capability.
	ErrMultipleHumanProxies = errors.New("roster allows at most one human proxy")

	// ErrParticipantNotFound is returned by lookups for unknown names.
	ErrParticipantNotFound = errors.New("participant not found")
)
