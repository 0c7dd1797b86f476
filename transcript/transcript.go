// Package transcript provides the append-only conversation log shared by the
// turn loop and its observers. Records are never mutated or deleted; insertion
// order is the only meaningful order.
package transcript

import (
	"time"
)

// TurnRecord is one completed turn in a conversation. Immutable once appended.
// Seq is assigned by the buffer and increases monotonically from zero.
type TurnRecord struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Seq       int       `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
}

// Buffer holds an ordered sequence of turn records. Implementations must be
// safe for concurrent use: the conversation worker appends while observers
// read snapshots.
type Buffer interface {
	// ID returns the unique buffer identifier.
	ID() string
	// Append adds a record to the log, assigning its sequence index and
	// timestamp. Returns the stored record.
	Append(sender, content string) TurnRecord
	// Snapshot returns a defensive copy of the log.
	Snapshot() []TurnRecord
	// Len returns the number of records appended so far.
	Len() int
}
