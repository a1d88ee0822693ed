// Package history provides the append-only ordered record of an agent run.
// The same log serves two purposes: it is the audit trail of everything that
// happened, and it is projected into the conversation sent to the model on
// every turn. Entries are immutable once appended.
package history

import (
	"encoding/json"
	"sync"

	ai "github.com/spetersoncode/webagent"
)

// Kind identifies the variant of a history entry.
type Kind string

const (
	// KindSystemPrompt is the rendered system prompt. Always entry 1.
	KindSystemPrompt Kind = "system_prompt"

	// KindInstruction is the user instruction text. Always entry 2.
	KindInstruction Kind = "instruction"

	// KindLLMResponse is the raw text returned by one model query.
	KindLLMResponse Kind = "llm_response"

	// KindToolResult is the outcome of one tool invocation attempt,
	// success or failure.
	KindToolResult Kind = "tool_result"
)

// Entry is a single tagged history record. Text is set for prompt,
// instruction, and response entries; ToolName, Arguments, and Result are set
// for tool result entries.
type Entry struct {
	Kind      Kind           `json:"kind"`
	Text      string         `json:"text,omitempty"`
	ToolName  string         `json:"tool,omitempty"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    ai.ToolResult  `json:"result,omitzero"`
}

// Log is the append-only occurrence-ordered record of a run.
// It is safe for concurrent reads; the agent loop is the single writer.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// AppendSystemPrompt records the rendered system prompt.
func (l *Log) AppendSystemPrompt(text string) {
	l.append(Entry{Kind: KindSystemPrompt, Text: text})
}

// AppendInstruction records the user instruction.
func (l *Log) AppendInstruction(text string) {
	l.append(Entry{Kind: KindInstruction, Text: text})
}

// AppendLLMResponse records the raw text of one model response.
func (l *Log) AppendLLMResponse(text string) {
	l.append(Entry{Kind: KindLLMResponse, Text: text})
}

// AppendToolResult records the outcome of one tool invocation attempt.
func (l *Log) AppendToolResult(toolName string, arguments map[string]any, result ai.ToolResult) {
	l.append(Entry{
		Kind:      KindToolResult,
		ToolName:  toolName,
		Arguments: arguments,
		Result:    result,
	})
}

func (l *Log) append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Entries returns a copy of all entries in occurrence order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]Entry, len(l.entries))
	copy(result, l.entries)
	return result
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Messages projects the full history into the provider-agnostic conversation
// sent to the model. The system prompt maps to the system role, the
// instruction to the user role, model responses to the assistant role, and
// tool results to user-role messages carrying the JSON-rendered result.
func (l *Log) Messages() []ai.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	messages := make([]ai.Message, 0, len(l.entries))
	for _, e := range l.entries {
		switch e.Kind {
		case KindSystemPrompt:
			messages = append(messages, ai.Message{Role: ai.RoleSystem, Text: e.Text})
		case KindInstruction:
			messages = append(messages, ai.Message{Role: ai.RoleUser, Text: e.Text})
		case KindLLMResponse:
			messages = append(messages, ai.Message{Role: ai.RoleAssistant, Text: e.Text})
		case KindToolResult:
			messages = append(messages, ai.Message{Role: ai.RoleUser, Text: renderToolResult(e)})
		}
	}
	return messages
}

// renderToolResult serializes a tool result entry for the model.
func renderToolResult(e Entry) string {
	payload := map[string]any{
		"tool": e.ToolName,
		"ok":   e.Result.OK,
	}
	if e.Result.Data != nil {
		payload["data"] = e.Result.Data
	}
	if e.Result.Error != "" {
		payload["error"] = e.Result.Error
	}
	data, err := json.Marshal(payload)
	if err != nil {
		// Data came from a tool result that already round-tripped through
		// JSON; marshaling cannot realistically fail, but never panic here.
		return `{"tool":"` + e.ToolName + `","ok":false,"error":"unserializable result"}`
	}
	return string(data)
}
