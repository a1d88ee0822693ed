// Package tool defines the tool capability consumed by the agent controller,
// the registry that maps names to tools, and the built-in tool set: file
// system operations, TODO tracking, npm server lifecycle, and test harness
// scaffolding.
//
// Tools receive an immutable [Environment] at initialization time (working
// context root, configuration lookup, protected paths) instead of reading
// process-wide globals. Execution failures are reported as result values; a
// tool can never crash the control loop.
package tool

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/schema"
)

// DataDirName is the reserved directory inside the working context holding
// the agent's own state: configuration, instruction, run log, and todo store.
// It is always protected from file-system tool operations.
const DataDirName = ".webagent"

// Tool is the capability the registry dispatches to.
type Tool interface {
	// Name is the registry-unique tool name, e.g. "fs.write".
	Name() string
	// Description is the human-readable text rendered into the system prompt.
	Description() string
	// Schema declares the tool's arguments in order.
	Schema() *schema.Schema
	// Init binds the tool to its environment before the run starts.
	Init(env *Environment) error
	// Execute runs the tool with validated arguments. Expected failures are
	// reported in the result; a returned error means the tool body itself
	// failed unexpectedly and is converted to a failed result at the
	// dispatch boundary.
	Execute(ctx context.Context, args map[string]any) (ai.ToolResult, error)
}

// ExecFunc is a tool body bound to its environment.
type ExecFunc func(ctx context.Context, env *Environment, args map[string]any) (ai.ToolResult, error)

// Definition is the standard Tool implementation used by all built-ins:
// a name, description, and schema plus an environment-aware body.
type Definition struct {
	name        string
	description string
	schema      *schema.Schema
	exec        ExecFunc
	env         *Environment
}

// New creates a tool from its parts.
func New(name, description string, s *schema.Schema, exec ExecFunc) *Definition {
	return &Definition{
		name:        name,
		description: description,
		schema:      s,
		exec:        exec,
	}
}

// Name returns the registry-unique tool name.
func (d *Definition) Name() string { return d.name }

// Description returns the prompt-facing description.
func (d *Definition) Description() string { return d.description }

// Schema returns the declared argument schema.
func (d *Definition) Schema() *schema.Schema { return d.schema }

// Init binds the environment.
func (d *Definition) Init(env *Environment) error {
	d.env = env
	return nil
}

// Execute runs the tool body.
func (d *Definition) Execute(ctx context.Context, args map[string]any) (ai.ToolResult, error) {
	if d.env == nil {
		return ai.ToolResult{}, fmt.Errorf("tool %s executed before Init", d.name)
	}
	return d.exec(ctx, d.env, args)
}

// Environment is the immutable value injected into every tool at Init time.
// It exposes the working-context root, a key/value configuration lookup, and
// the protected-paths list.
type Environment struct {
	root      string
	config    map[string]any
	protected []string
}

// NewEnvironment creates an environment rooted at the working context.
// The protected-paths list is read from the "protected_files" config key.
func NewEnvironment(root string, config map[string]any) *Environment {
	env := &Environment{
		root:   filepath.Clean(root),
		config: config,
	}
	env.protected = env.ConfigStrings("protected_files")
	return env
}

// Root returns the working-context root directory.
func (e *Environment) Root() string { return e.root }

// DataDir returns the agent's reserved state directory inside the root.
func (e *Environment) DataDir() string { return filepath.Join(e.root, DataDirName) }

// ConfigValue looks up a raw configuration value.
func (e *Environment) ConfigValue(key string) (any, bool) {
	v, ok := e.config[key]
	return v, ok
}

// ConfigString returns a string config value, or def when absent or not a string.
func (e *Environment) ConfigString(key, def string) string {
	if v, ok := e.config[key].(string); ok {
		return v
	}
	return def
}

// ConfigInt returns an integer config value, or def when absent. JSON numbers
// decode as float64 and are accepted when integral.
func (e *Environment) ConfigInt(key string, def int) int {
	switch v := e.config[key].(type) {
	case int:
		return v
	case float64:
		if v == float64(int64(v)) {
			return int(v)
		}
	}
	return def
}

// ConfigStrings returns a string-list config value, or nil when absent.
func (e *Environment) ConfigStrings(key string) []string {
	raw, ok := e.config[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// ProtectedPaths returns the configured protected-paths list.
func (e *Environment) ProtectedPaths() []string {
	return e.protected
}

// Resolve maps a workspace-relative path to an absolute path, rejecting any
// path that escapes the working-context root.
func (e *Environment) Resolve(path string) (string, error) {
	full := filepath.Join(e.root, filepath.Clean(path))
	rel, err := filepath.Rel(e.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the workspace", path)
	}
	return full, nil
}

// IsProtected reports whether a workspace-relative path is excluded from
// write and delete operations. The agent's own data directory is always
// protected.
func (e *Environment) IsProtected(path string) bool {
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == DataDirName || strings.HasPrefix(clean, DataDirName+"/") {
		return true
	}
	for _, p := range e.protected {
		pc := filepath.ToSlash(filepath.Clean(p))
		if clean == pc || strings.HasPrefix(clean, pc+"/") {
			return true
		}
	}
	return false
}
