// Package bridge implements the blocking hand-off of a human-input request
// from the conversation worker goroutine to whichever goroutine serves the
// human, and of the human's answer back.
//
// The bridge is a single-slot rendezvous: at most one request may be pending
// at a time, a response releases exactly one waiter, and the slot is cleared
// after each exchange so a later request never observes a stale answer.
package bridge

import (
	"context"
	"sync"
	"time"
)

// DefaultFallback is returned to a waiter that is released without a real
// response (abandonment or context cancellation). It keeps the conversation
// live at the cost of the orchestrator proceeding on fabricated input.
const DefaultFallback = "continue"

// PendingRequest describes an unanswered human-input request.
type PendingRequest struct {
	Prompt    string
	CreatedAt time.Time
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithFallback overrides the fallback sentinel returned on abandonment.
func WithFallback(fallback string) Option {
	return func(b *Bridge) { b.fallback = fallback }
}

// Bridge moves one human-input request at a time between goroutines.
// The zero value is not usable; construct with New.
type Bridge struct {
	mu        sync.Mutex
	pending   *slot
	fallback  string
	abandoned bool
}

// slot carries one request and its single-use reply channel. The channel is
// buffered so Respond and Abandon never block.
type slot struct {
	request PendingRequest
	reply   chan string
}

// New creates an idle Bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{fallback: DefaultFallback}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Request publishes a human-input request and suspends the caller until a
// response is supplied via Respond, the bridge is abandoned, or ctx is
// cancelled. The last two release the caller with the fallback sentinel
// rather than an error so the worker never deadlocks.
//
// Returns ErrRequestPending if another request is already outstanding.
func (b *Bridge) Request(ctx context.Context, prompt string) (string, error) {
	b.mu.Lock()
	if b.abandoned {
		b.mu.Unlock()
		return b.fallback, nil
	}
	if b.pending != nil {
		b.mu.Unlock()
		return "", ErrRequestPending
	}

	s := &slot{
		request: PendingRequest{Prompt: prompt, CreatedAt: time.Now()},
		reply:   make(chan string, 1),
	}
	b.pending = s
	b.mu.Unlock()

	select {
	case response := <-s.reply:
		return response, nil
	case <-ctx.Done():
		b.clear(s)
		return b.fallback, nil
	}
}

// Respond stores a response and releases the pending Request waiter. Calling
// Respond with no outstanding request is a no-op; this tolerates races
// between UI polling and worker completion. Reports whether a waiter was
// released.
func (b *Bridge) Respond(response string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return false
	}

	b.pending.reply <- response
	b.pending = nil
	return true
}

// Pending returns the current unanswered request, if any.
func (b *Bridge) Pending() (PendingRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		return PendingRequest{}, false
	}
	return b.pending.request, true
}

// Abandon permanently shuts the bridge down: any parked waiter is released
// with the fallback sentinel and every later Request returns the fallback
// immediately. Used when the foreground resets or the session fails, so no
// worker goroutine is leaked mid-wait.
func (b *Bridge) Abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.abandoned = true
	if b.pending != nil {
		b.pending.reply <- b.fallback
		b.pending = nil
	}
}

// clear drops the given slot if it is still the pending one. Called by a
// waiter that was released by context cancellation, so a Respond racing the
// cancellation stays a no-op instead of answering a dead request.
func (b *Bridge) clear(s *slot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == s {
		b.pending = nil
	}
}
