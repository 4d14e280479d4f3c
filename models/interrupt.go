package models

// InterruptRequest is emitted when a step handler needs human input. The
// session stays suspended at exactly that point until a matching response
// arrives.
type InterruptRequest struct {
	ID      string                 `json:"id"`
	Step    Step                   `json:"step"`
	Prompt  string                 `json:"prompt"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// InterruptResponse carries the human's raw reply back into the workflow.
// InterruptID is optional; when set it lets the engine detect a retried
// resume of an already-handled interrupt.
type InterruptResponse struct {
	SessionID   string `json:"sessionId"`
	InterruptID string `json:"interruptId,omitempty"`
	Reply       string `json:"reply"`
}

// TurnResult is what one processed turn hands back to the transport.
type TurnResult struct {
	SessionID string            `json:"sessionId"`
	Messages  []Message         `json:"messages"`
	Interrupt *InterruptRequest `json:"interrupt,omitempty"`
	Done      bool              `json:"done"`
}
