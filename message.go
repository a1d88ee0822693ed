package webagent

import (
	"context"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single provider-agnostic conversation message. The agent
// projects its full history into an ordered []Message before every query.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Client is the language model capability consumed by the agent controller.
// Generate sends the ordered conversation and returns the raw response text.
// Transport and timeout failures are returned as categorized errors so the
// caller can distinguish transient conditions from permanent ones.
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// GenerateRunID creates a unique identifier for a single agent run.
// It is attached to every structured log event of the run.
func GenerateRunID() string {
	return "run-" + uuid.New().String()
}
