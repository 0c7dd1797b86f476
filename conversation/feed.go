package conversation

import (
	"sync/atomic"
	"time"
)

// DisplayKind classifies a feed message for rendering.
type DisplayKind string

const (
	KindInfo             DisplayKind = "info"
	KindAgent            DisplayKind = "agent"
	KindError            DisplayKind = "error"
	KindUserInputRequest DisplayKind = "user_input_request"
)

// DisplayMessage is one presentation event for the external observer. A
// user_input_request must be rendered specially and its reply routed back
// through the session's bridge.
type DisplayMessage struct {
	Kind      DisplayKind `json:"kind"`
	Content   string      `json:"content"`
	Sender    string      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
}

// Feed is the display queue between the conversation worker and the
// foreground. The worker publishes, the foreground polls; the consumer side
// never blocks. Messages beyond the buffer capacity are dropped rather than
// stalling the turn loop.
type Feed struct {
	channel    chan DisplayMessage
	bufferSize int
	closed     atomic.Int32
	dropped    atomic.Int64
}

// NewFeed creates a Feed with the given buffer capacity.
func NewFeed(bufferSize int) *Feed {
	if bufferSize <= 0 {
		bufferSize = defaultFeedBufferSize
	}
	return &Feed{
		channel:    make(chan DisplayMessage, bufferSize),
		bufferSize: bufferSize,
	}
}

// Publish enqueues a message without blocking. Reports false when the
// message was dropped because the feed was full or closed.
func (f *Feed) Publish(kind DisplayKind, sender, content string) bool {
	if f.IsClosed() {
		return false
	}

	msg := DisplayMessage{
		Kind:      kind,
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
	}

	select {
	case f.channel <- msg:
		return true
	default:
		f.dropped.Add(1)
		return false
	}
}

// TryReceive pops the oldest message without blocking. The second return is
// false when nothing is queued; the consumer treats that as "nothing yet".
func (f *Feed) TryReceive() (DisplayMessage, bool) {
	select {
	case msg := <-f.channel:
		return msg, true
	default:
		return DisplayMessage{}, false
	}
}

// Drain pops every currently queued message.
func (f *Feed) Drain() []DisplayMessage {
	var msgs []DisplayMessage
	for {
		msg, ok := f.TryReceive()
		if !ok {
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

// Close marks the feed closed for publishing. Queued messages remain
// receivable.
func (f *Feed) Close() {
	f.closed.CompareAndSwap(0, 1)
}

// IsClosed reports whether the feed no longer accepts messages.
func (f *Feed) IsClosed() bool {
	return f.closed.Load() == 1
}

// QueueLength returns the number of messages waiting to be received.
func (f *Feed) QueueLength() int {
	return len(f.channel)
}

// Dropped returns how many messages were discarded on a full feed.
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}
