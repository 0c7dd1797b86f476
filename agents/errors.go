package agents

import "errors"

var (
	// ErrEmptyName is returned when a participant is built without a name.
	ErrEmptyName = errors.New("participant name is empty")

	// ErrNilClient is returned when an assistant is built without a
	// completion backend.
	ErrNilClient = errors.New("completion client is required")

	// ErrNilBridge is returned when a human proxy is built without a bridge.
	ErrNilBridge = errors.New("bridge is required")

	// ErrEmptyResponse is returned when the model yields no choices.
	ErrEmptyResponse = errors.New("model returned no choices")

	// ErrToolIterations is returned when a single turn exhausts its
	// tool-call round budget without producing a final message.
	ErrToolIterations = errors.New("tool iteration budget exhausted")
)
