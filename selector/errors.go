package selector

import "errors"

var (
	// ErrSelectionExhausted is returned when no valid candidate was found
	// within the configured attempt budget. Fatal to the conversation; the
	// session moves to Failed rather than looping forever.
	ErrSelectionExhausted = errors.New("turn selection exhausted")

	// ErrHumanProxyGated rejects a human-proxy proposal whose preceding turn
	// was not an orchestrator turn carrying the human-input marker.
	ErrHumanProxyGated = errors.New("human proxy not addressable")

	// ErrRepeatedSpeaker rejects a consecutive turn by the same sender when
	// repeated speakers are disallowed.
	ErrRepeatedSpeaker = errors.New("repeated speaker disallowed")
)
