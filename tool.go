package webagent

// ToolCall is a decoded tool invocation request from the model.
type ToolCall struct {
	// Name is the registry name of the tool to invoke.
	Name string `json:"tool"`
	// Arguments are the raw arguments as decoded from the wire protocol,
	// prior to schema validation.
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the outcome of one tool invocation attempt. Failed
// validation, unknown tools, and caught execution failures all produce a
// ToolResult with OK false; the Error text is relayed to the model so it can
// observe the failure and self-correct.
type ToolResult struct {
	OK    bool           `json:"ok"`
	Data  map[string]any `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
}

// ErrorResult builds a failed ToolResult from a message.
func ErrorResult(msg string) ToolResult {
	return ToolResult{OK: false, Error: msg}
}

// OKResult builds a successful ToolResult carrying data.
func OKResult(data map[string]any) ToolResult {
	return ToolResult{OK: true, Data: data}
}
