package ai

import "context"

// ReasoningOracle is the external text-understanding service used for intent
// extraction, slot ranking and detail interpretation. Implementations return
// raw text; callers must treat the output as untrusted and repair or fall
// back when it is not valid JSON.
type ReasoningOracle interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
