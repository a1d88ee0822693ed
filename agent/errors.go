package agent

import "fmt"

// InitError is a fatal pre-loop failure: the run never starts and no LLM
// query is issued.
type InitError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("agent: initialization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("agent: initialization failed: %s", e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *InitError) Unwrap() error { return e.Err }
