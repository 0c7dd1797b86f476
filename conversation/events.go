package conversation

import "github.com/tailored-agentic-units/roundtable/observability"

// Conversation event types emitted during the turn loop.
const (
	EventSessionStart  observability.EventType = "conversation.session.start"
	EventTurnStart     observability.EventType = "conversation.turn.start"
	EventTurnComplete  observability.EventType = "conversation.turn.complete"
	EventAwaitingHuman observability.EventType = "conversation.awaiting_human"
	EventHumanResolved observability.EventType = "conversation.human_resolved"
	EventTerminated    observability.EventType = "conversation.terminated"
	EventFailed        observability.EventType = "conversation.failed"
)
