// Package protocol implements the embedded wire protocol between the agent
// and the model: it renders registered tools into the system prompt and
// decodes free-form model output into a discrete action.
//
// The grammar is deliberately small. A tool call is a
// <tool_call>{"tool": "...", "arguments": {...}}</tool_call> block; a literal
// <terminate> token anywhere in the response signals completion. Model output
// is never evaluated, only scanned.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/schema"
)

// Wire protocol markers.
const (
	ToolCallOpen  = "<tool_call>"
	ToolCallClose = "</tool_call>"
	TerminateMark = "<terminate>"
)

// ActionType identifies the decoded action variant.
type ActionType string

const (
	// ActionInvoke requests a tool invocation.
	ActionInvoke ActionType = "invoke"

	// ActionTerminate signals the run is complete.
	ActionTerminate ActionType = "terminate"

	// ActionNone means no recognizable directive was found. The turn is
	// still consumed.
	ActionNone ActionType = "none"
)

// Action is the decoded result of one model response.
type Action struct {
	Type ActionType
	// Call is set when Type is ActionInvoke.
	Call *ai.ToolCall
	// Err records why a present tool-call block failed to decode. It is
	// informational; decoding itself never fails.
	Err error
}

// DecodeError records a malformed tool-call block.
type DecodeError struct {
	Block string
	Err   error
}

// Error returns a description of the malformed block.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("protocol: malformed tool call block: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// wireCall mirrors the JSON payload inside a tool-call block. Pointers
// distinguish absent keys from empty values.
type wireCall struct {
	Tool      *string         `json:"tool"`
	Arguments *map[string]any `json:"arguments"`
}

// Decode turns raw model output into an Action by a deterministic scan:
//
//  1. Look for the first well-formed tool-call block. A well-formed block
//     wraps exactly one JSON object with the required keys "tool" and
//     "arguments". The first block that parses wins.
//  2. If none parses but the literal <terminate> token is present, the run
//     terminates. A well-formed tool call takes precedence over a terminate
//     marker in the same response; termination requires that no well-formed
//     call could be parsed.
//  3. Otherwise the action is ActionNone, carrying the first block's parse
//     error if a block was present.
//
// Decode never panics and never returns an error past this boundary.
func Decode(raw string) Action {
	call, decodeErr := scanToolCall(raw)
	if call != nil {
		return Action{Type: ActionInvoke, Call: call}
	}

	if strings.Contains(raw, TerminateMark) {
		return Action{Type: ActionTerminate}
	}

	return Action{Type: ActionNone, Err: decodeErr}
}

// scanToolCall finds the first well-formed tool-call block. It returns the
// decoded call, or nil with the first failure observed while scanning.
func scanToolCall(raw string) (*ai.ToolCall, error) {
	var firstErr error
	rest := raw

	for {
		start := strings.Index(rest, ToolCallOpen)
		if start < 0 {
			return nil, firstErr
		}
		rest = rest[start+len(ToolCallOpen):]

		end := strings.Index(rest, ToolCallClose)
		if end < 0 {
			if firstErr == nil {
				firstErr = &DecodeError{Block: rest, Err: fmt.Errorf("missing %s", ToolCallClose)}
			}
			return nil, firstErr
		}

		block := rest[:end]
		rest = rest[end+len(ToolCallClose):]

		call, err := parseBlock(block)
		if err == nil {
			return call, nil
		}
		if firstErr == nil {
			firstErr = &DecodeError{Block: block, Err: err}
		}
	}
}

// parseBlock decodes the JSON payload of a single block and checks the
// required keys.
func parseBlock(block string) (*ai.ToolCall, error) {
	var wire wireCall
	dec := json.NewDecoder(strings.NewReader(block))
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}
	// Exactly one JSON object: trailing content inside the block is malformed.
	if dec.More() {
		return nil, fmt.Errorf("trailing content after JSON object")
	}
	if wire.Tool == nil {
		return nil, fmt.Errorf(`missing required key "tool"`)
	}
	if wire.Arguments == nil {
		return nil, fmt.Errorf(`missing required key "arguments"`)
	}
	return &ai.ToolCall{Name: *wire.Tool, Arguments: *wire.Arguments}, nil
}

// ToolInfo is the slice of the tool capability the renderer needs.
type ToolInfo interface {
	Name() string
	Description() string
	Schema() *schema.Schema
}

// Render emits the tool catalog as a structured text block: one section per
// tool with its name, description, and argument specs in declaration order.
func Render(tools []ToolInfo) string {
	var b strings.Builder
	for i, t := range tools {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n%s\n", t.Name(), t.Description())
		args := t.Schema().Arguments()
		if len(args) == 0 {
			b.WriteString("Arguments: none\n")
			continue
		}
		b.WriteString("Arguments:\n")
		for _, arg := range args {
			requirement := "optional"
			if arg.Required {
				requirement = "required"
			}
			fmt.Fprintf(&b, "- %s (%s, %s): %s\n", arg.Name, arg.Type, requirement, arg.Description)
		}
	}
	return b.String()
}

// RenderSystemPrompt assembles the complete system prompt: the agent's
// operating rules, the wire protocol grammar, and the tool catalog. It is
// rendered once during initialization.
func RenderSystemPrompt(tools []ToolInfo) string {
	var b strings.Builder
	b.WriteString(`You are an autonomous agent working inside a project workspace.

You act only by invoking tools. To invoke a tool, include exactly one block
of the following form in your response:

<tool_call>{"tool": "<name>", "arguments": {...}}</tool_call>

The arguments object must match the tool's schema. After each invocation you
receive a JSON result with "ok", "data", and "error" fields; inspect it before
deciding your next step. When the task is complete, respond with the literal
token <terminate> and nothing else.

# Available tools

`)
	b.WriteString(Render(tools))
	return b.String()
}
