package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/roundtable/agents"
	"github.com/tailored-agentic-units/roundtable/bridge"
	"github.com/tailored-agentic-units/roundtable/conversation"
	"github.com/tailored-agentic-units/roundtable/llm"
	"github.com/tailored-agentic-units/roundtable/observability"
	"github.com/tailored-agentic-units/roundtable/pricing"
)

const pollInterval = 100 * time.Millisecond

type phase int

const (
	phaseAskTask phase = iota
	phaseRunning
	phaseAwaitingInput
	phaseDone
)

type tickMsg time.Time

type sessionDoneMsg struct {
	result *conversation.Result
	err    error
}

type theme struct {
	sender lipgloss.Style
	info   lipgloss.Style
	errMsg lipgloss.Style
	ask    lipgloss.Style
	final  lipgloss.Style
}

func newTheme() theme {
	return theme{
		sender: lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1")).Bold(true),
		info:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")),
		errMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5c8a")).Bold(true),
		ask:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd166")).Bold(true),
		final:  lipgloss.NewStyle().Foreground(lipgloss.Color("#74c7ec")),
	}
}

type model struct {
	cfg    conversation.Config
	client *llm.Client
	theme  theme

	sess *conversation.Session
	done chan sessionDoneMsg

	phase    phase
	lines    []string
	result   *conversation.Result
	runErr   error
	width    int
	height   int
	ready    bool
	timeline viewport.Model
	input    textinput.Model
	spinner  spinner.Model
}

func newModel(cfg conversation.Config, client *llm.Client) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Placeholder = "Describe the workload you want to migrate"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true

	return model{
		cfg:      cfg,
		client:   client,
		theme:    newTheme(),
		phase:    phaseAskTask,
		input:    input,
		spinner:  sp,
		timeline: timeline,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForDone(done <-chan sessionDoneMsg) tea.Cmd {
	return func() tea.Msg {
		return <-done
	}
}

// startSession builds the team and launches the conversation worker. The
// returned command waits for completion while ticks drain the feed.
func (m *model) startSession(task string) tea.Cmd {
	b := bridge.New()
	roster, err := agents.MigrationTeam(m.client, b, m.cfg.Selector.HumanInputMarker)
	if err != nil {
		m.runErr = err
		m.phase = phaseDone
		return nil
	}

	sess, err := conversation.New(m.cfg, roster,
		conversation.WithBridge(b),
		conversation.WithObserver(observability.NoOpObserver{}),
	)
	if err != nil {
		m.runErr = err
		m.phase = phaseDone
		return nil
	}

	m.sess = sess
	m.done = make(chan sessionDoneMsg, 1)
	m.phase = phaseRunning
	m.input.Blur()
	m.input.Reset()
	m.input.Placeholder = "Answer here when asked"

	done := m.done
	go func() {
		result, err := sess.Run(context.Background(), task)
		done <- sessionDoneMsg{result: result, err: err}
	}()

	return tea.Batch(tick(), waitForDone(done))
}

func (m *model) drainFeed() {
	if m.sess == nil {
		return
	}
	for _, msg := range m.sess.Feed().Drain() {
		switch msg.Kind {
		case conversation.KindInfo:
			m.lines = append(m.lines, m.theme.info.Render("-- "+msg.Content))
		case conversation.KindError:
			m.lines = append(m.lines, m.theme.errMsg.Render("!! "+msg.Content))
		case conversation.KindUserInputRequest:
			m.lines = append(m.lines, m.theme.ask.Render("?? "+msg.Content))
			m.phase = phaseAwaitingInput
			m.input.Focus()
		default:
			m.lines = append(m.lines, m.theme.sender.Render(msg.Sender+": ")+msg.Content)
		}
	}
	m.timeline.SetContent(strings.Join(m.lines, "\n"))
	m.timeline.GotoBottom()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.timeline.Width = msg.Width
		m.timeline.Height = msg.Height - 4
		m.input.Width = msg.Width - 4
		m.ready = true
		m.drainFeedIntoViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.sess != nil {
				m.sess.Abandon()
			}
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleEnter()
		}

	case tickMsg:
		m.drainFeed()
		if m.phase == phaseRunning || m.phase == phaseAwaitingInput {
			var cmd tea.Cmd
			m.timeline, cmd = m.timeline.Update(msg)
			return m, tea.Batch(tick(), cmd)
		}
		return m, nil

	case sessionDoneMsg:
		m.drainFeed()
		m.result = msg.result
		m.runErr = msg.err
		m.phase = phaseDone
		m.input.Blur()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.timeline, cmd = m.timeline.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) drainFeedIntoViewport() {
	m.timeline.SetContent(strings.Join(m.lines, "\n"))
	m.timeline.GotoBottom()
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	switch m.phase {
	case phaseAskTask:
		if text == "" {
			return m, nil
		}
		cmd := m.startSession(text)
		return m, cmd

	case phaseAwaitingInput:
		if text == "" {
			text = bridge.DefaultFallback
		}
		if m.sess.Bridge().Respond(text) {
			m.phase = phaseRunning
			m.input.Reset()
			m.input.Blur()
		}
		return m, nil

	case phaseDone:
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return "starting..."
	}

	var status string
	switch m.phase {
	case phaseAskTask:
		status = "Describe your migration task and press enter."
	case phaseRunning:
		status = m.spinner.View() + " agents are working... (esc to quit)"
	case phaseAwaitingInput:
		status = m.theme.ask.Render("The planner needs your input. Type an answer and press enter.")
	case phaseDone:
		if m.runErr != nil {
			status = m.theme.errMsg.Render(fmt.Sprintf("Failed: %v (enter to exit)", m.runErr))
		} else {
			status = m.theme.final.Render(fmt.Sprintf("Done: %s, %d turns (enter to exit)", m.result.Reason, m.result.Turns))
		}
	}

	return m.timeline.View() + "\n" + status + "\n" + m.input.View()
}

func main() {
	configFile := flag.String("config", "", "Path to conversation config JSON file (optional)")
	flag.Parse()

	cfg := conversation.DefaultConfig()
	if *configFile != "" {
		loaded, err := conversation.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	// The terminal belongs to the TUI; keep slog off the screen.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	client, err := llm.NewClient(llm.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}
	if err := pricing.RegisterTools(pricing.NewClient()); err != nil {
		log.Fatalf("Failed to register pricing tools: %v", err)
	}

	p := tea.NewProgram(newModel(cfg, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI failed: %v", err)
	}
}
