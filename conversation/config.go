package conversation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/roundtable/selector"
)

const (
	defaultTerminationMarker = "TERMINATE"
	defaultMaxMessages       = 25
	defaultUserName          = "user"
	defaultFeedBufferSize    = 256
)

// ExtractConfig tunes final-answer extraction. The keyword list and length
// threshold are presentation heuristics, not contracts; tune per deployment.
type ExtractConfig struct {
	// MinLength is the minimum content length of a qualifying summary.
	MinLength int `json:"min_length"`
	// Keywords is the set of summary-class terms, matched case-insensitively.
	// At least one must appear in a qualifying record.
	Keywords []string `json:"keywords"`
}

// DefaultExtractConfig returns the default extraction tuning.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		MinLength: 200,
		Keywords:  []string{"recommendation", "summary", "migration", "cost", "architecture"},
	}
}

// Merge applies non-zero values from source into c.
func (c *ExtractConfig) Merge(source *ExtractConfig) {
	if source.MinLength > 0 {
		c.MinLength = source.MinLength
	}
	if len(source.Keywords) > 0 {
		c.Keywords = source.Keywords
	}
}

// Config holds initialization parameters for a conversation session.
type Config struct {
	// TerminationMarker ends the loop when it appears in any appended turn.
	TerminationMarker string `json:"termination_marker"`
	// MaxMessages is the transcript length ceiling; the loop terminates once
	// the transcript reaches it even without the marker.
	MaxMessages int `json:"max_messages"`
	// UserFacingMarker gates forwarding of specialist turns to the display
	// feed. Empty means specialist turns are never forwarded.
	UserFacingMarker string `json:"user_facing_marker,omitempty"`
	// UserName is the sender recorded for the initial task and human replies
	// relayed into the transcript.
	UserName string `json:"user_name"`
	// FeedBufferSize caps the display feed queue.
	FeedBufferSize int `json:"feed_buffer_size"`

	Selector selector.Config `json:"selector"`
	Extract  ExtractConfig   `json:"extract"`
}

// DefaultConfig returns a Config with sensible defaults for all sections.
func DefaultConfig() Config {
	return Config{
		TerminationMarker: defaultTerminationMarker,
		MaxMessages:       defaultMaxMessages,
		UserName:          defaultUserName,
		FeedBufferSize:    defaultFeedBufferSize,
		Selector:          selector.DefaultConfig(),
		Extract:           DefaultExtractConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// section's Merge method.
func (c *Config) Merge(source *Config) {
	if source.TerminationMarker != "" {
		c.TerminationMarker = source.TerminationMarker
	}
	if source.MaxMessages > 0 {
		c.MaxMessages = source.MaxMessages
	}
	if source.UserFacingMarker != "" {
		c.UserFacingMarker = source.UserFacingMarker
	}
	if source.UserName != "" {
		c.UserName = source.UserName
	}
	if source.FeedBufferSize > 0 {
		c.FeedBufferSize = source.FeedBufferSize
	}

	c.Selector.Merge(&source.Selector)
	c.Extract.Merge(&source.Extract)
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
