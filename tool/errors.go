package tool

import "fmt"

// UnknownError is returned when a tool call references an unregistered tool.
type UnknownError struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *UnknownError) Error() string {
	return fmt.Sprintf("tool: unknown tool: %s", e.Name)
}

// DuplicateError is returned when registering a tool with a duplicate name.
type DuplicateError struct {
	Name string
}

// Error returns a formatted error message including the duplicate tool name.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}
