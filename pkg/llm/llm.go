package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the language-model collaborator: stateless per call, rate limited
// and timed out externally, treated as unreliable and non-deterministic.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
