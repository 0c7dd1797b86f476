// Package conversation implements the multi-agent turn loop: a session owns
// the roster, the append-only transcript, the turn selector, the display
// feed, and exactly one human-input bridge, and drives participants until a
// termination marker appears or the message ceiling is reached.
//
//	sess, err := conversation.New(cfg, roster)
//	result, err := sess.Run(ctx, "migrate my web app")
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/roundtable/bridge"
	"github.com/tailored-agentic-units/roundtable/observability"
	"github.com/tailored-agentic-units/roundtable/selector"
	"github.com/tailored-agentic-units/roundtable/team"
	"github.com/tailored-agentic-units/roundtable/transcript"
)

// State is the session lifecycle phase. Running and AwaitingHumanInput may
// alternate any number of times; Terminated and Failed are final.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateAwaitingHumanInput
	StateTerminated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateAwaitingHumanInput:
		return "awaiting_human_input"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TerminationReason records which condition ended the loop.
type TerminationReason string

const (
	ReasonMarker  TerminationReason = "termination_marker"
	ReasonCeiling TerminationReason = "message_ceiling"
)

// Result holds the outcome of a completed session.
type Result struct {
	// FinalAnswer is the extracted summary, marker stripped. Empty when no
	// record qualified; that is not an error.
	FinalAnswer string
	// Reason is the termination condition that fired.
	Reason TerminationReason
	// Turns is the transcript length at termination, initial task included.
	Turns int
}

// Option configures a Session after config-driven initialization.
type Option func(*Session)

// WithBuffer overrides the default in-memory transcript buffer.
func WithBuffer(b transcript.Buffer) Option {
	return func(s *Session) { s.buffer = b }
}

// WithSelector overrides the default rule selector.
func WithSelector(sel selector.Selector) Option {
	return func(s *Session) { s.selector = sel }
}

// WithBridge overrides the default human-input bridge.
func WithBridge(b *bridge.Bridge) Option {
	return func(s *Session) { s.bridge = b }
}

// WithFeed overrides the default display feed.
func WithFeed(f *Feed) Option {
	return func(s *Session) { s.feed = f }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(s *Session) { s.observer = o }
}

// Session drives one conversation from task to termination. Create one per
// task; a session cannot be rerun.
type Session struct {
	cfg      Config
	roster   *team.Roster
	buffer   transcript.Buffer
	selector selector.Selector
	bridge   *bridge.Bridge
	feed     *Feed
	observer observability.Observer

	mu    sync.RWMutex
	state State
}

// New creates a Session from configuration. Subsystems are initialized with
// in-memory defaults; functional options can override any of them.
func New(cfg Config, roster *team.Roster, opts ...Option) (*Session, error) {
	if roster == nil {
		return nil, ErrNilRoster
	}

	s := &Session{
		cfg:      cfg,
		roster:   roster,
		buffer:   transcript.NewMemoryBuffer(),
		selector: selector.New(cfg.Selector, nil),
		bridge:   bridge.New(),
		feed:     NewFeed(cfg.FeedBufferSize),
		observer: observability.NewSlogObserver(slog.Default()),
		state:    StateIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// State returns the current lifecycle phase. Safe to call from any
// goroutine.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Bridge returns the session's human-input bridge. The foreground routes
// replies to user_input_request feed messages through it.
func (s *Session) Bridge() *bridge.Bridge {
	return s.bridge
}

// Feed returns the display feed for foreground polling.
func (s *Session) Feed() *Feed {
	return s.feed
}

// Transcript returns a snapshot of the transcript so far.
func (s *Session) Transcript() []transcript.TurnRecord {
	return s.buffer.Snapshot()
}

// Abandon releases any worker parked in the bridge with the fallback
// sentinel. Called by the foreground on reset so no goroutine leaks
// mid-wait.
func (s *Session) Abandon() {
	s.bridge.Abandon()
}

// Run executes the turn loop for the given task until termination. Intended
// to run on a worker goroutine; the foreground polls Feed and serves bridge
// requests meanwhile. Returns the extracted result, or an error when the
// session failed (selection exhausted, participant error, cancellation).
func (s *Session) Run(ctx context.Context, task string) (*Result, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrSessionConsumed
	}
	s.state = StateRunning
	s.mu.Unlock()

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventSessionStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "conversation.Run",
		Data: map[string]any{
			"transcript_id": s.buffer.ID(),
			"participants":  s.roster.Len(),
			"task_length":   len(task),
		},
	})
	s.feed.Publish(KindInfo, "system", "Running multi-agent analysis...")

	record := s.buffer.Append(s.cfg.UserName, task)
	if reason, done := s.checkTermination(record); done {
		return s.terminate(ctx, reason)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, s.fail(ctx, err)
		}

		snapshot := s.buffer.Snapshot()

		next, err := s.selector.Next(snapshot, s.roster)
		if err != nil {
			return nil, s.fail(ctx, err)
		}

		s.observer.OnEvent(ctx, observability.Event{
			Type:      EventTurnStart,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "conversation.Run",
			Data: map[string]any{
				"sender": next.Name(),
				"seq":    len(snapshot),
			},
		})

		awaitsHuman := next.Capabilities().Has(team.CapabilityHumanProxy)
		if awaitsHuman {
			s.setState(StateAwaitingHumanInput)
			s.observer.OnEvent(ctx, observability.Event{
				Type:      EventAwaitingHuman,
				Level:     observability.LevelInfo,
				Timestamp: time.Now(),
				Source:    "conversation.Run",
				Data:      map[string]any{"sender": next.Name()},
			})
		}

		fragments, err := next.Invoke(ctx, snapshot)

		if awaitsHuman {
			s.setState(StateRunning)
			s.observer.OnEvent(ctx, observability.Event{
				Type:      EventHumanResolved,
				Level:     observability.LevelInfo,
				Timestamp: time.Now(),
				Source:    "conversation.Run",
				Data:      map[string]any{"sender": next.Name()},
			})
		}

		if err != nil {
			return nil, s.fail(ctx, fmt.Errorf("participant %s failed: %w", next.Name(), err))
		}

		record := s.buffer.Append(next.Name(), joinFragments(fragments))

		s.observer.OnEvent(ctx, observability.Event{
			Type:      EventTurnComplete,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    "conversation.Run",
			Data: map[string]any{
				"sender":         record.Sender,
				"seq":            record.Seq,
				"content_length": len(record.Content),
			},
		})

		s.forward(record)

		if reason, done := s.checkTermination(record); done {
			return s.terminate(ctx, reason)
		}
	}
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// checkTermination runs only on whole appended records, never mid-turn.
// The content marker wins over the ceiling when both fire on the same
// record.
func (s *Session) checkTermination(record transcript.TurnRecord) (TerminationReason, bool) {
	if s.cfg.TerminationMarker != "" && strings.Contains(record.Content, s.cfg.TerminationMarker) {
		return ReasonMarker, true
	}
	if s.cfg.MaxMessages > 0 && s.buffer.Len() >= s.cfg.MaxMessages {
		return ReasonCeiling, true
	}
	return "", false
}

func (s *Session) terminate(ctx context.Context, reason TerminationReason) (*Result, error) {
	s.setState(StateTerminated)

	final := ExtractResult(
		s.buffer.Snapshot(),
		s.roster.Orchestrator(),
		s.cfg.TerminationMarker,
		s.cfg.Extract,
	)
	if final != "" {
		s.feed.Publish(KindAgent, s.roster.Orchestrator(), final)
	}
	s.feed.Publish(KindInfo, "system", "Analysis completed.")

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventTerminated,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "conversation.Run",
		Data: map[string]any{
			"reason":     string(reason),
			"turns":      s.buffer.Len(),
			"has_answer": final != "",
		},
	})

	return &Result{
		FinalAnswer: final,
		Reason:      reason,
		Turns:       s.buffer.Len(),
	}, nil
}

// fail reports the error once to the feed, releases any bridge waiter, and
// pins the session in Failed. The transcript is left as-is for inspection
// but the loop never continues on it.
func (s *Session) fail(ctx context.Context, err error) error {
	s.setState(StateFailed)
	s.feed.Publish(KindError, "system", err.Error())
	s.bridge.Abandon()

	s.observer.OnEvent(ctx, observability.Event{
		Type:      EventFailed,
		Level:     observability.LevelError,
		Timestamp: time.Now(),
		Source:    "conversation.Run",
		Data:      map[string]any{"error": err.Error()},
	})

	return fmt.Errorf("conversation failed: %w", err)
}

// forward projects an appended record onto the display feed. Projection
// never affects transcript storage or termination: orchestrator turns are
// always shown, human-proxy turns never, and specialist turns only when
// they carry the user-facing marker. An orchestrator turn requesting human
// input additionally emits a user_input_request with the extracted prompt.
func (s *Session) forward(record transcript.TurnRecord) {
	if s.shouldForward(record) {
		s.feed.Publish(KindAgent, record.Sender, record.Content)
	}

	if record.Sender == s.roster.Orchestrator() &&
		s.cfg.Selector.HumanInputMarker != "" &&
		strings.Contains(record.Content, s.cfg.Selector.HumanInputMarker) {
		prompt := ExtractPrompt(record.Content, s.cfg.Selector.HumanInputMarker)
		s.feed.Publish(KindUserInputRequest, record.Sender, prompt)
	}
}

func (s *Session) shouldForward(record transcript.TurnRecord) bool {
	switch record.Sender {
	case s.roster.Orchestrator():
		return true
	case s.roster.HumanProxy(), s.cfg.UserName:
		return false
	default:
		return s.cfg.UserFacingMarker != "" &&
			strings.Contains(record.Content, s.cfg.UserFacingMarker)
	}
}

func joinFragments(fragments []string) string {
	trimmed := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if fragment != "" {
			trimmed = append(trimmed, fragment)
		}
	}
	return strings.Join(trimmed, "\n")
}
