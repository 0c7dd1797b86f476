// Package selector decides which participant acts next in a conversation.
//
// The selection strategy is pluggable, but every strategy runs inside a
// constraint harness that enforces the hard sequencing rules: the
// orchestrator opens the conversation, the human proxy is reachable only
// through an orchestrator turn that requests input, repeated speakers are
// gated by configuration, and selection always terminates within a bounded
// number of attempts.
package selector

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/roundtable/team"
	"github.com/tailored-agentic-units/roundtable/transcript"
)

// Strategy proposes a candidate participant name for the next turn. The
// attempt counter starts at 1 and increments each time the harness rejects a
// proposal, letting strategies offer alternates instead of repeating
// themselves into exhaustion.
type Strategy func(snapshot []transcript.TurnRecord, roster *team.Roster, attempt int) string

// Selector picks the next participant to act.
type Selector interface {
	Next(snapshot []transcript.TurnRecord, roster *team.Roster) (team.Participant, error)
}

// Config holds the selection constraints.
type Config struct {
	// AllowRepeatedSpeaker permits a participant to take consecutive turns.
	AllowRepeatedSpeaker bool `json:"allow_repeated_speaker"`
	// MaxAttempts bounds the number of strategy proposals per selection.
	MaxAttempts int `json:"max_selector_attempts"`
	// HumanInputMarker is the token an orchestrator turn must carry for the
	// human proxy to become selectable on the following turn.
	HumanInputMarker string `json:"human_input_marker"`
}

// DefaultConfig returns the default selection constraints.
func DefaultConfig() Config {
	return Config{
		AllowRepeatedSpeaker: false,
		MaxAttempts:          2,
		HumanInputMarker:     "NEED_INPUT",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.AllowRepeatedSpeaker {
		c.AllowRepeatedSpeaker = true
	}
	if source.MaxAttempts > 0 {
		c.MaxAttempts = source.MaxAttempts
	}
	if source.HumanInputMarker != "" {
		c.HumanInputMarker = source.HumanInputMarker
	}
}

type ruleSelector struct {
	cfg      Config
	strategy Strategy
}

// New creates a Selector running the given strategy under the constraint
// harness. A nil strategy falls back to RotationStrategy.
func New(cfg Config, strategy Strategy) Selector {
	if strategy == nil {
		strategy = RotationStrategy
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &ruleSelector{cfg: cfg, strategy: strategy}
}

func (s *ruleSelector) Next(snapshot []transcript.TurnRecord, roster *team.Roster) (team.Participant, error) {
	// The orchestrator always opens: until a roster member has spoken, no
	// strategy may pick anyone else. The initial user task record does not
	// count as a spoken turn.
	if !anyParticipantSpoke(snapshot, roster) {
		return roster.Get(roster.Orchestrator())
	}

	// An orchestrator turn carrying the human-input marker routes straight
	// to the human proxy. The gate is both a constraint and a router: only
	// the orchestrator may relay to the human, and when it does, the human
	// answers next.
	last := snapshot[len(snapshot)-1]
	if proxy := roster.HumanProxy(); proxy != "" && s.humanProxyGateOpen(last, roster) {
		return roster.Get(proxy)
	}

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		candidate := s.strategy(snapshot, roster, attempt)
		if err := s.validate(candidate, snapshot, roster); err == nil {
			return roster.Get(candidate)
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrSelectionExhausted, s.cfg.MaxAttempts)
}

// validate applies the hard sequencing constraints to a proposed candidate.
func (s *ruleSelector) validate(candidate string, snapshot []transcript.TurnRecord, roster *team.Roster) error {
	if _, err := roster.Get(candidate); err != nil {
		return err
	}

	last := snapshot[len(snapshot)-1]

	if candidate == roster.HumanProxy() && roster.HumanProxy() != "" {
		if !s.humanProxyGateOpen(last, roster) {
			return fmt.Errorf("%w: %s", ErrHumanProxyGated, candidate)
		}
	}

	if !s.cfg.AllowRepeatedSpeaker && last.Sender == candidate {
		return fmt.Errorf("%w: %s", ErrRepeatedSpeaker, candidate)
	}

	return nil
}

// humanProxyGateOpen reports whether the immediately preceding turn was an
// orchestrator turn carrying the human-input marker. Only then may the human
// proxy be selected; no other participant may address it.
func (s *ruleSelector) humanProxyGateOpen(last transcript.TurnRecord, roster *team.Roster) bool {
	return last.Sender == roster.Orchestrator() &&
		strings.Contains(last.Content, s.cfg.HumanInputMarker)
}

func anyParticipantSpoke(snapshot []transcript.TurnRecord, roster *team.Roster) bool {
	for _, rec := range snapshot {
		if _, err := roster.Get(rec.Sender); err == nil {
			return true
		}
	}
	return false
}
