package conversation

import (
	"strings"

	"github.com/tailored-agentic-units/roundtable/transcript"
)

// ExtractResult scans a terminated transcript backward for the final answer:
// the most recent orchestrator record whose content exceeds the length
// threshold and carries at least one summary keyword. The termination marker
// is stripped from the returned text. An empty return means no synthesized
// summary is available; callers must not treat that as an error.
func ExtractResult(snapshot []transcript.TurnRecord, orchestrator, terminationMarker string, cfg ExtractConfig) string {
	for i := len(snapshot) - 1; i >= 0; i-- {
		rec := snapshot[i]
		if rec.Sender != orchestrator {
			continue
		}
		if len(rec.Content) <= cfg.MinLength {
			continue
		}
		if !containsAnyKeyword(rec.Content, cfg.Keywords) {
			continue
		}
		return strings.TrimSpace(strings.ReplaceAll(rec.Content, terminationMarker, ""))
	}
	return ""
}

// ExtractPrompt returns the question text following the human-input marker,
// or the whole content when the marker is absent.
func ExtractPrompt(content, marker string) string {
	if marker == "" {
		return strings.TrimSpace(content)
	}
	_, after, found := strings.Cut(content, marker)
	if !found {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(after), ":"))
}

func containsAnyKeyword(content string, keywords []string) bool {
	lowered := strings.ToLower(content)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
