package workspace

import "fmt"

// NotInitializedError is returned by Open when a required workspace file is
// missing.
type NotInitializedError struct {
	Path string
}

// Error implements the error interface.
func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("workspace: required file not found: %s", e.Path)
}

// ConfigError is returned by Open when the configuration file cannot be
// parsed.
type ConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("workspace: invalid config %s: %v", e.Path, e.Err)
}

// Unwrap returns the parse error.
func (e *ConfigError) Unwrap() error { return e.Err }

// ActiveRunError is returned by Open when the run log already exists. The
// log marks a completed or in-flight run; remove it to start a new one.
type ActiveRunError struct {
	Path string
}

// Error implements the error interface.
func (e *ActiveRunError) Error() string {
	return fmt.Sprintf("workspace: run log already exists: %s (remove it to start a new run)", e.Path)
}
