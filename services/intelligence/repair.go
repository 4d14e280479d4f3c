package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON parses oracle output into v. It first attempts a direct parse;
// on failure it strips an enclosing markdown code fence and retries once.
// A second failure is returned to the caller, whose job is to fall back to
// a deterministic computation.
func DecodeJSON(raw string, v interface{}) error {
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	stripped := StripCodeFence(trimmed)
	if err := json.Unmarshal([]byte(stripped), v); err != nil {
		return fmt.Errorf("oracle output is not valid JSON: %w", err)
	}
	return nil
}

// StripCodeFence removes an enclosing ``` wrapper, including a leading
// "json" language tag, and returns the inner content. Input without a fence
// is returned unchanged.
func StripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) >= 3 {
		s = parts[len(parts)-2]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}
