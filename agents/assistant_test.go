package agents_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/roundtable/agents"
	"github.com/tailored-agentic-units/roundtable/llm"
	"github.com/tailored-agentic-units/roundtable/team"
	"github.com/tailored-agentic-units/roundtable/tools"
	"github.com/tailored-agentic-units/roundtable/transcript"
)

// scriptedCompleter replays a fixed sequence of responses and records the
// requests it saw.
type scriptedCompleter struct {
	responses []llm.ChatCompletionResponse
	requests  []llm.ChatCompletionRequest
	err       error
}

func (s *scriptedCompleter) ChatCompletion(_ context.Context, request llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.requests = append(s.requests, request)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return &resp, nil
}

func textResponse(content string) llm.ChatCompletionResponse {
	return llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: llm.ChatMessage{Role: "assistant", Content: content}}},
	}
}

func toolCallResponse(content, callID, toolName, arguments string) llm.ChatCompletionResponse {
	return llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: llm.ChatMessage{
			Role:    "assistant",
			Content: content,
			ToolCalls: []llm.ToolCall{{
				ID:   callID,
				Type: "function",
				Function: llm.ToolCallFunction{Name: toolName, Arguments: arguments},
			}},
		}}},
	}
}

func TestNewAssistantValidation(t *testing.T) {
	client := &scriptedCompleter{}

	if _, err := agents.NewAssistant(agents.AssistantConfig{}, client); !errors.Is(err, agents.ErrEmptyName) {
		t.Errorf("empty name: got %v, want ErrEmptyName", err)
	}
	if _, err := agents.NewAssistant(agents.AssistantConfig{Name: "planner"}, nil); !errors.Is(err, agents.ErrNilClient) {
		t.Errorf("nil client: got %v, want ErrNilClient", err)
	}
}

func TestAssistantInvokeReturnsContent(t *testing.T) {
	client := &scriptedCompleter{responses: []llm.ChatCompletionResponse{
		textResponse("plan: analyze requirements first"),
	}}
	assistant, err := agents.NewAssistant(agents.AssistantConfig{Name: "planner"}, client)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	fragments, err := assistant.Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(fragments) != 1 || fragments[0] != "plan: analyze requirements first" {
		t.Errorf("fragments = %v", fragments)
	}
}

func TestAssistantMessageProjection(t *testing.T) {
	client := &scriptedCompleter{responses: []llm.ChatCompletionResponse{textResponse("ok")}}
	assistant, err := agents.NewAssistant(agents.AssistantConfig{
		Name:          "planner",
		SystemMessage: "you coordinate the analysis",
	}, client)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	snapshot := []transcript.TurnRecord{
		{Sender: "user", Content: "migrate my web portal", Seq: 0},
		{Sender: "planner", Content: "1. requirements: analyze", Seq: 1},
		{Sender: "requirements", Content: "workload: web portal", Seq: 2},
	}
	if _, err := assistant.Invoke(context.Background(), snapshot); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	messages := client.requests[0].Messages
	want := []llm.ChatMessage{
		{Role: "system", Content: "you coordinate the analysis"},
		{Role: "user", Content: "user: migrate my web portal"},
		{Role: "assistant", Content: "1. requirements: analyze"},
		{Role: "user", Content: "requirements: workload: web portal"},
	}
	if len(messages) != len(want) {
		t.Fatalf("got %d messages, want %d", len(messages), len(want))
	}
	for i, m := range messages {
		if m.Role != want[i].Role || m.Content != want[i].Content {
			t.Errorf("message %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestAssistantToolLoop(t *testing.T) {
	toolName := "assistant_test_lookup"
	err := tools.Register(tools.Tool{Name: toolName, Description: "test lookup"},
		func(_ context.Context, args json.RawMessage) (tools.Result, error) {
			var req struct {
				Service string `json:"service"`
			}
			if err := json.Unmarshal(args, &req); err != nil {
				return tools.Result{}, err
			}
			return tools.Result{Content: "price for " + req.Service + ": 0.12"}, nil
		})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	client := &scriptedCompleter{responses: []llm.ChatCompletionResponse{
		toolCallResponse("", "call-1", toolName, `{"service":"Virtual Machines"}`),
		textResponse("Virtual Machines cost 0.12 per hour"),
	}}
	assistant, err := agents.NewAssistant(agents.AssistantConfig{
		Name:         "pricing",
		Capabilities: team.CapabilityTools,
	}, client)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	fragments, err := assistant.Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(fragments) != 1 || fragments[0] != "Virtual Machines cost 0.12 per hour" {
		t.Errorf("fragments = %v", fragments)
	}

	// The second request must carry the assistant tool-call turn and the
	// tool result addressed by call ID.
	second := client.requests[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call-1" {
		t.Errorf("tool message = %+v", last)
	}
	if last.Content != "price for Virtual Machines: 0.12" {
		t.Errorf("tool content = %q", last.Content)
	}
	if len(client.requests[0].Tools) == 0 {
		t.Error("tool-capable assistant sent no tool definitions")
	}
}

func TestAssistantToolErrorResultFedBack(t *testing.T) {
	toolName := "assistant_test_failing"
	err := tools.Register(tools.Tool{Name: toolName},
		func(_ context.Context, _ json.RawMessage) (tools.Result, error) {
			return tools.Result{Content: "no data found", IsError: true}, nil
		})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	client := &scriptedCompleter{responses: []llm.ChatCompletionResponse{
		toolCallResponse("", "call-1", toolName, `{}`),
		textResponse("I could not find pricing data"),
	}}
	assistant, err := agents.NewAssistant(agents.AssistantConfig{
		Name:         "pricing",
		Capabilities: team.CapabilityTools,
	}, client)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	if _, err := assistant.Invoke(context.Background(), nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	second := client.requests[1].Messages
	last := second[len(second)-1]
	if last.Content != "error: no data found" {
		t.Errorf("tool error content = %q", last.Content)
	}
}

func TestAssistantToolIterationBudget(t *testing.T) {
	toolName := "assistant_test_looping"
	err := tools.Register(tools.Tool{Name: toolName},
		func(_ context.Context, _ json.RawMessage) (tools.Result, error) {
			return tools.Result{Content: "again"}, nil
		})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Always answer with another tool call; the loop must give up.
	client := &scriptedCompleter{responses: []llm.ChatCompletionResponse{
		toolCallResponse("", "c1", toolName, `{}`),
		toolCallResponse("", "c2", toolName, `{}`),
		toolCallResponse("", "c3", toolName, `{}`),
	}}
	assistant, err := agents.NewAssistant(agents.AssistantConfig{
		Name:              "pricing",
		Capabilities:      team.CapabilityTools,
		MaxToolIterations: 3,
	}, client)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	if _, err := assistant.Invoke(context.Background(), nil); !errors.Is(err, agents.ErrToolIterations) {
		t.Errorf("got %v, want ErrToolIterations", err)
	}
	if len(client.requests) != 3 {
		t.Errorf("made %d requests, want 3", len(client.requests))
	}
}

func TestAssistantEmptyResponse(t *testing.T) {
	client := &scriptedCompleter{responses: []llm.ChatCompletionResponse{{}}}
	assistant, err := agents.NewAssistant(agents.AssistantConfig{Name: "planner"}, client)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	if _, err := assistant.Invoke(context.Background(), nil); !errors.Is(err, agents.ErrEmptyResponse) {
		t.Errorf("got %v, want ErrEmptyResponse", err)
	}
}

func TestAssistantClientError(t *testing.T) {
	backendErr := errors.New("deployment unavailable")
	client := &scriptedCompleter{err: backendErr}
	assistant, err := agents.NewAssistant(agents.AssistantConfig{Name: "planner"}, client)
	if err != nil {
		t.Fatalf("NewAssistant: %v", err)
	}

	if _, err := assistant.Invoke(context.Background(), nil); !errors.Is(err, backendErr) {
		t.Errorf("got %v, want wrapped backend error", err)
	}
}
