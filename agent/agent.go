// Package agent implements the control loop that drives an autonomous run:
// query the LLM, decode the embedded tool-call protocol from its response,
// dispatch tools through the registry, and append everything to the history
// log that serves as prompt context for the next turn.
//
// A Controller moves through INITIALIZING → RUNNING and ends in exactly one
// of TERMINATED, MAX_TURNS_EXCEEDED, or FATAL. The loop is strictly
// sequential: at most one outstanding LLM query and one active tool
// execution at any time.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/history"
	"github.com/spetersoncode/webagent/protocol"
	"github.com/spetersoncode/webagent/retry"
	"github.com/spetersoncode/webagent/tool"
)

// State is the controller's lifecycle state.
type State string

const (
	// StateInitializing is the state before the system prompt and
	// instruction have been appended.
	StateInitializing State = "INITIALIZING"
	// StateRunning is the state while the turn loop is active.
	StateRunning State = "RUNNING"
	// StateTerminated means the model affirmatively ended the run.
	StateTerminated State = "TERMINATED"
	// StateMaxTurnsExceeded means the turn budget ran out. This is a
	// bounded-effort outcome, not an error.
	StateMaxTurnsExceeded State = "MAX_TURNS_EXCEEDED"
	// StateFatal means the run halted on an unrecoverable error.
	StateFatal State = "FATAL"
)

// Result summarizes a finished run.
type Result struct {
	// State is the terminal state of the run.
	State State
	// TurnCount is the number of turns consumed.
	TurnCount int
	// Err is set when State is StateFatal.
	Err error
}

// Controller owns one agent run over a working context.
type Controller struct {
	client      ai.Client
	registry    *tool.Registry
	instruction string
	history     *history.Log
	logger      *slog.Logger
	retryConfig retry.Config
	maxTurns    int
	runID       string

	state       State
	turnCount   int
	initialized bool
}

// New creates a controller for one run. The instruction is the user's task
// text loaded from the working context.
func New(client ai.Client, registry *tool.Registry, instruction string, opts ...Option) *Controller {
	c := &Controller{
		client:      client,
		registry:    registry,
		instruction: instruction,
		history:     history.NewLog(),
		logger:      slog.New(slog.DiscardHandler),
		retryConfig: retry.DefaultConfig(),
		maxTurns:    DefaultMaxTurns,
		runID:       ai.GenerateRunID(),
		state:       StateInitializing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the controller's current state.
func (c *Controller) State() State { return c.state }

// TurnCount returns the number of turns consumed so far.
func (c *Controller) TurnCount() int { return c.turnCount }

// History returns the run's history log.
func (c *Controller) History() *history.Log { return c.history }

// RunID returns the run's unique identifier.
func (c *Controller) RunID() string { return c.runID }

// Initialize renders the system prompt from the registry and appends it,
// then appends the user instruction. It fails with *InitError when the
// instruction is empty; the run marker precondition is enforced by the
// workspace before the controller exists.
func (c *Controller) Initialize(ctx context.Context) error {
	if c.initialized {
		return &InitError{Reason: "controller already initialized"}
	}
	if err := ctx.Err(); err != nil {
		return &InitError{Reason: "context canceled", Err: err}
	}
	if c.instruction == "" {
		return &InitError{Reason: "instruction is missing or empty"}
	}

	tools := c.registry.Tools()
	infos := make([]protocol.ToolInfo, len(tools))
	for i, t := range tools {
		infos[i] = t
	}
	prompt := protocol.RenderSystemPrompt(infos)

	c.history.AppendSystemPrompt(prompt)
	c.history.AppendInstruction(c.instruction)
	c.initialized = true
	c.state = StateRunning

	c.logger.Info("run initialized",
		"run_id", c.runID,
		"tools", c.registry.Names(),
		"max_turns", c.maxTurns)
	return nil
}

// Run executes the turn loop until the model terminates, the turn budget is
// exhausted, or a fatal error occurs. The returned error is non-nil only for
// fatal outcomes; it is also recorded in the result.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	if !c.initialized {
		if err := c.Initialize(ctx); err != nil {
			c.state = StateFatal
			return c.finish(err), err
		}
	}

	for turn := 1; turn <= c.maxTurns; turn++ {
		c.turnCount = turn

		raw, err := c.queryLLM(ctx, turn)
		if err != nil {
			c.state = StateFatal
			return c.finish(err), err
		}

		action := protocol.Decode(raw)
		switch action.Type {
		case protocol.ActionTerminate:
			c.logger.Info("run terminated by model", "run_id", c.runID, "turn", turn)
			c.state = StateTerminated
			return c.finish(nil), nil
		case protocol.ActionInvoke:
			c.executeTool(ctx, turn, action.Call)
		case protocol.ActionNone:
			// An unparseable or directive-free response still consumes the
			// turn, so the run cannot stall forever.
			if action.Err != nil {
				c.logger.Warn("undecodable response",
					"run_id", c.runID, "turn", turn, "error", action.Err)
			}
		}
	}

	c.logger.Info("turn budget exhausted", "run_id", c.runID, "turns", c.maxTurns)
	c.state = StateMaxTurnsExceeded
	return c.finish(nil), nil
}

// queryLLM projects the history into messages, calls the provider with
// bounded retry, and appends the raw response. Exhausted retries are fatal.
func (c *Controller) queryLLM(ctx context.Context, turn int) (string, error) {
	messages := c.history.Messages()
	c.logger.Debug("query issued", "run_id", c.runID, "turn", turn, "messages", len(messages))

	raw, err := retry.Do(ctx, c.retryConfig, func() (string, error) {
		return c.client.Generate(ctx, messages)
	})
	if err != nil {
		c.logger.Error("provider failed", "run_id", c.runID, "turn", turn, "error", err)
		return "", fmt.Errorf("querying llm on turn %d: %w", turn, err)
	}

	c.history.AppendLLMResponse(raw)
	c.logger.Debug("query answered", "run_id", c.runID, "turn", turn, "chars", len(raw))
	return raw, nil
}

// executeTool dispatches one invocation and appends exactly one tool result,
// success or failure. No tool can crash or end the loop.
func (c *Controller) executeTool(ctx context.Context, turn int, call *ai.ToolCall) {
	result := c.dispatch(ctx, call)
	c.history.AppendToolResult(call.Name, call.Arguments, result)

	if result.OK {
		c.logger.Info("tool executed", "run_id", c.runID, "turn", turn, "tool", call.Name)
	} else {
		c.logger.Warn("tool failed",
			"run_id", c.runID, "turn", turn, "tool", call.Name, "error", result.Error)
	}
}

// dispatch resolves, validates, and runs a tool call, converting every
// failure mode into a result value at this boundary.
func (c *Controller) dispatch(ctx context.Context, call *ai.ToolCall) (result ai.ToolResult) {
	t, err := c.registry.Get(call.Name)
	if err != nil {
		return ai.ErrorResult(err.Error())
	}

	validated, err := t.Schema().Validate(call.Arguments)
	if err != nil {
		return ai.ErrorResult(err.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			result = ai.ErrorResult(fmt.Sprintf("tool %q panicked: %v", call.Name, r))
		}
	}()

	result, err = t.Execute(ctx, validated)
	if err != nil {
		return ai.ErrorResult(err.Error())
	}
	return result
}

func (c *Controller) finish(err error) *Result {
	c.logger.Info("run finished",
		"run_id", c.runID, "state", string(c.state), "turns", c.turnCount)
	return &Result{
		State:     c.state,
		TurnCount: c.turnCount,
		Err:       err,
	}
}
