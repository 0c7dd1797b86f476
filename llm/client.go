// Package llm provides the chat-completion client that backs assistant
// participants. The wire format is the OpenAI-compatible chat/completions
// API served by Azure OpenAI deployments; the conversation core never
// imports this package and only sees participants.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultAPIVersion = "2025-01-01-preview"

// Config carries the deployment coordinates read by the bootstrap layer.
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	APIVersion string
}

// ConfigFromEnv reads the deployment coordinates from the conventional
// AZURE_OPENAI_* environment variables.
func ConfigFromEnv() Config {
	apiVersion := os.Getenv("AZURE_OPENAI_API_VERSION")
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	return Config{
		Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		APIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		Model:      os.Getenv("AZURE_OPENAI_MODEL"),
		APIVersion: apiVersion,
	}
}

// Validate reports the first missing required field.
func (c Config) Validate() error {
	switch {
	case c.Endpoint == "":
		return fmt.Errorf("llm config: endpoint is required")
	case c.APIKey == "":
		return fmt.Errorf("llm config: api key is required")
	case c.Model == "":
		return fmt.Errorf("llm config: model is required")
	}
	return nil
}

// Chat API types (OpenAI-compatible).

type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

type ToolFunction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

type ChatCompletionRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Tools       []Tool        `json:"tools,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type Choice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      ChatMessage `json:"message"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Client calls one chat-completion deployment. Safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient validates the config and creates a Client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// ChatCompletion sends one chat request and decodes the response.
func (c *Client) ChatCompletion(ctx context.Context, request ChatCompletionRequest) (*ChatCompletionResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	requestURL := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Model, c.cfg.APIVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("chat completion error: status %d: %s",
			res.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded ChatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &decoded, nil
}
