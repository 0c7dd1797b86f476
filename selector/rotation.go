package selector

import (
	"github.com/tailored-agentic-units/roundtable/team"
	"github.com/tailored-agentic-units/roundtable/transcript"
)

// RotationStrategy is the default rule-based strategy. Control bounces
// between the orchestrator and its specialists: after any specialist or
// human turn the orchestrator speaks, and after a plain orchestrator turn
// the specialists take the floor in roster order. Rejected proposals shift
// the rotation by the attempt offset so a retry proposes a different
// specialist.
func RotationStrategy(snapshot []transcript.TurnRecord, roster *team.Roster, attempt int) string {
	orchestrator := roster.Orchestrator()
	if len(snapshot) == 0 {
		return orchestrator
	}

	last := snapshot[len(snapshot)-1]
	if last.Sender != orchestrator {
		return orchestrator
	}

	specialists := specialistNames(roster)
	if len(specialists) == 0 {
		return orchestrator
	}

	spoken := 0
	for _, rec := range snapshot {
		for _, name := range specialists {
			if rec.Sender == name {
				spoken++
				break
			}
		}
	}

	return specialists[(spoken+attempt-1)%len(specialists)]
}

// specialistNames lists roster members that are neither the orchestrator nor
// the human proxy, in registration order.
func specialistNames(roster *team.Roster) []string {
	var names []string
	for _, p := range roster.Participants() {
		name := p.Name()
		if name == roster.Orchestrator() || name == roster.HumanProxy() {
			continue
		}
		names = append(names, name)
	}
	return names
}
