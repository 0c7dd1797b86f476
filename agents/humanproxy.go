package agents

import (
	"context"

	"github.com/tailored-agentic-units/roundtable/bridge"
	"github.com/tailored-agentic-units/roundtable/conversation"
	"github.com/tailored-agentic-units/roundtable/team"
	"github.com/tailored-agentic-units/roundtable/transcript"
)

// HumanProxyConfig describes the human-in-the-loop participant.
type HumanProxyConfig struct {
	Name        string
	Description string
	// InputMarker is the token the orchestrator uses to address the human;
	// the question text follows it. Must match the selector configuration.
	InputMarker string
}

// HumanProxy is the participant whose invocation parks on the bridge until
// the foreground supplies the human's answer. Its turn content is exactly
// that answer.
type HumanProxy struct {
	cfg    HumanProxyConfig
	bridge *bridge.Bridge
}

// NewHumanProxy creates a HumanProxy bound to the session's bridge.
func NewHumanProxy(cfg HumanProxyConfig, b *bridge.Bridge) (*HumanProxy, error) {
	if cfg.Name == "" {
		return nil, ErrEmptyName
	}
	if b == nil {
		return nil, ErrNilBridge
	}
	return &HumanProxy{cfg: cfg, bridge: b}, nil
}

func (h *HumanProxy) Name() string                  { return h.cfg.Name }
func (h *HumanProxy) Description() string           { return h.cfg.Description }
func (h *HumanProxy) Capabilities() team.Capability { return team.CapabilityHumanProxy }

func (h *HumanProxy) Invoke(ctx context.Context, snapshot []transcript.TurnRecord) ([]string, error) {
	prompt := ""
	if len(snapshot) > 0 {
		last := snapshot[len(snapshot)-1]
		prompt = conversation.ExtractPrompt(last.Content, h.cfg.InputMarker)
	}

	response, err := h.bridge.Request(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return []string{response}, nil
}
