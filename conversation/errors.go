package conversation

import "errors"

var (
	// ErrNilRoster is returned by New when no roster is supplied.
	ErrNilRoster = errors.New("roster is required")

	// ErrSessionConsumed is returned by Run on a session that already
	// started. Sessions are single-use; create a new one per task.
	ErrSessionConsumed = errors.New("session already started")
)
