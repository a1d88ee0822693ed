// Package workspace opens the working context an agent run operates on: a
// project directory holding a .webagent/ data directory with the run
// configuration, the user instruction, and the run log.
//
// A workspace can host at most one run. The run log doubles as the run
// marker: opening a workspace whose log already exists fails, and the caller
// must remove the log to start over.
package workspace

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spetersoncode/webagent/tool"
)

// Well-known files inside the data directory.
const (
	ConfigFileName      = "config.json"
	InstructionFileName = "instruction.md"
	RunLogFileName      = "agent.log"
)

// DefaultMaxTurns bounds the control loop when the configuration does not
// set max_turns.
const DefaultMaxTurns = 50

// Workspace is an opened working context with its run log attached.
type Workspace struct {
	root        string
	config      map[string]any
	instruction string
	env         *tool.Environment
	logger      *slog.Logger
	logFile     *os.File
}

// Open loads the workspace rooted at dir and claims it for a run by creating
// the run log. It fails with *NotInitializedError when the configuration or
// instruction is missing and with *ActiveRunError when a run log already
// exists. With debug set, log records are mirrored to stderr.
func Open(dir string, debug bool) (*Workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	dataDir := filepath.Join(root, tool.DataDirName)

	configPath := filepath.Join(dataDir, ConfigFileName)
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, &NotInitializedError{Path: configPath}
	}
	var config map[string]any
	if err := json.Unmarshal(configData, &config); err != nil {
		return nil, &ConfigError{Path: configPath, Err: err}
	}

	instructionPath := filepath.Join(dataDir, InstructionFileName)
	instructionData, err := os.ReadFile(instructionPath)
	if err != nil {
		return nil, &NotInitializedError{Path: instructionPath}
	}
	instruction := strings.TrimSpace(string(instructionData))

	logPath := filepath.Join(dataDir, RunLogFileName)
	if _, err := os.Stat(logPath); err == nil {
		return nil, &ActiveRunError{Path: logPath}
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}

	var logOut io.Writer = logFile
	if debug {
		logOut = io.MultiWriter(logFile, os.Stderr)
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Workspace{
		root:        root,
		config:      config,
		instruction: instruction,
		env:         tool.NewEnvironment(root, config),
		logger:      logger,
		logFile:     logFile,
	}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Instruction returns the user instruction text.
func (w *Workspace) Instruction() string { return w.instruction }

// Environment returns the tool environment bound to this workspace.
func (w *Workspace) Environment() *tool.Environment { return w.env }

// Logger returns the run logger writing to the run log.
func (w *Workspace) Logger() *slog.Logger { return w.logger }

// MaxTurns returns the configured turn bound, or DefaultMaxTurns.
func (w *Workspace) MaxTurns() int {
	return w.env.ConfigInt("max_turns", DefaultMaxTurns)
}

// Provider returns the configured LLM provider name, defaulting to "mock".
func (w *Workspace) Provider() string {
	return w.env.ConfigString("llm_type", "mock")
}

// Model returns the configured model name, or empty for the provider default.
func (w *Workspace) Model() string {
	return w.env.ConfigString("model", "")
}

// APIKey returns the configured API key, or empty to fall back to the
// provider's environment variable.
func (w *Workspace) APIKey() string {
	return w.env.ConfigString("api_key", "")
}

// MockResponses returns the scripted responses for the mock provider.
func (w *Workspace) MockResponses() []string {
	return w.env.ConfigStrings("mock_responses")
}

// AllowedTools returns the tool allow-list, or nil when every tool is
// permitted.
func (w *Workspace) AllowedTools() []string {
	return w.env.ConfigStrings("allowed_tools")
}

// Close releases the run log. The log stays on disk as the run marker.
func (w *Workspace) Close() error {
	return w.logFile.Close()
}
