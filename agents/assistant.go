// Package agents provides the concrete turn participants: model-backed
// assistants (orchestrator and specialists) and the human proxy that blocks
// on the bridge. The conversation loop only sees the team.Participant
// interface.
package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tailored-agentic-units/roundtable/llm"
	"github.com/tailored-agentic-units/roundtable/team"
	"github.com/tailored-agentic-units/roundtable/tools"
	"github.com/tailored-agentic-units/roundtable/transcript"
)

const defaultMaxToolIterations = 5

// Completer abstracts the chat-completion backend for testability. llm.Client
// is the production implementation.
type Completer interface {
	ChatCompletion(ctx context.Context, request llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
}

// AssistantConfig describes one model-backed participant.
type AssistantConfig struct {
	Name          string
	Description   string
	SystemMessage string
	// Capabilities should include team.CapabilityTools for specialists that
	// call registered tools during their turns.
	Capabilities team.Capability
	// MaxToolIterations bounds tool-call rounds within a single turn.
	MaxToolIterations int
}

// Assistant is a participant whose turns come from a chat-completion model,
// optionally interleaved with tool calls.
type Assistant struct {
	cfg    AssistantConfig
	client Completer
}

// NewAssistant creates an Assistant from config and a completion backend.
func NewAssistant(cfg AssistantConfig, client Completer) (*Assistant, error) {
	if cfg.Name == "" {
		return nil, ErrEmptyName
	}
	if client == nil {
		return nil, ErrNilClient
	}
	if cfg.MaxToolIterations <= 0 {
		cfg.MaxToolIterations = defaultMaxToolIterations
	}
	return &Assistant{cfg: cfg, client: client}, nil
}

func (a *Assistant) Name() string                  { return a.cfg.Name }
func (a *Assistant) Description() string           { return a.cfg.Description }
func (a *Assistant) Capabilities() team.Capability { return a.cfg.Capabilities }

// Invoke projects the transcript into a chat request and runs the
// model/tool round-trip until the model produces a turn without tool calls.
// Each round's text content becomes one fragment of the turn.
func (a *Assistant) Invoke(ctx context.Context, snapshot []transcript.TurnRecord) ([]string, error) {
	messages := a.buildMessages(snapshot)

	var toolDefs []llm.Tool
	if a.cfg.Capabilities.Has(team.CapabilityTools) {
		toolDefs = convertTools(tools.List())
	}

	var fragments []string
	for iteration := 0; iteration < a.cfg.MaxToolIterations; iteration++ {
		resp, err := a.client.ChatCompletion(ctx, llm.ChatCompletionRequest{
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			return nil, fmt.Errorf("assistant %s: %w", a.cfg.Name, err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("assistant %s: %w", a.cfg.Name, ErrEmptyResponse)
		}

		msg := resp.Choices[0].Message
		if msg.Content != "" {
			fragments = append(fragments, msg.Content)
		}
		if len(msg.ToolCalls) == 0 {
			return fragments, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result, err := tools.Execute(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			if err != nil {
				return nil, fmt.Errorf("assistant %s: %w", a.cfg.Name, err)
			}

			content := result.Content
			if result.IsError {
				content = "error: " + content
			}
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	return nil, fmt.Errorf("assistant %s: %w", a.cfg.Name, ErrToolIterations)
}

// buildMessages renders the shared transcript from this assistant's point of
// view: its own past turns become assistant messages, everyone else's become
// user messages prefixed with the sender.
func (a *Assistant) buildMessages(snapshot []transcript.TurnRecord) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(snapshot)+1)
	if a.cfg.SystemMessage != "" {
		messages = append(messages, llm.ChatMessage{Role: "system", Content: a.cfg.SystemMessage})
	}

	for _, record := range snapshot {
		if record.Sender == a.cfg.Name {
			messages = append(messages, llm.ChatMessage{Role: "assistant", Content: record.Content})
			continue
		}
		messages = append(messages, llm.ChatMessage{
			Role:    "user",
			Content: fmt.Sprintf("%s: %s", record.Sender, record.Content),
		})
	}
	return messages
}

func convertTools(defs []tools.Tool) []llm.Tool {
	converted := make([]llm.Tool, 0, len(defs))
	for _, def := range defs {
		converted = append(converted, llm.Tool{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return converted
}
