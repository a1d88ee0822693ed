package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/agent"
	"github.com/spetersoncode/webagent/history"
	"github.com/spetersoncode/webagent/provider/mock"
	"github.com/spetersoncode/webagent/retry"
	"github.com/spetersoncode/webagent/schema"
	"github.com/spetersoncode/webagent/tool"
)

// echoTool returns its "text" argument and counts executions.
func echoTool(executed *int) tool.Tool {
	return tool.New("echo", "Echo the given text back.",
		schema.New().Add("text", schema.TypeString, true, "Text to echo"),
		func(ctx context.Context, env *tool.Environment, args map[string]any) (ai.ToolResult, error) {
			if executed != nil {
				*executed++
			}
			return ai.OKResult(map[string]any{"text": args["text"]}), nil
		})
}

func newController(t *testing.T, client ai.Client, tools []tool.Tool, opts ...agent.Option) *agent.Controller {
	t.Helper()
	r := tool.NewRegistry()
	r.MustRegister(tools...)
	require.NoError(t, r.Init(tool.NewEnvironment(t.TempDir(), nil)))
	return agent.New(client, r, "Build the thing.", opts...)
}

// failingClient always fails with a permanent error.
type failingClient struct{}

func (failingClient) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	return "", ai.NewPermanentError("model unavailable", 401, nil)
}

func TestControllerInitialize(t *testing.T) {
	t.Run("appends system prompt then instruction", func(t *testing.T) {
		c := newController(t, mock.New(), []tool.Tool{echoTool(nil)})

		require.NoError(t, c.Initialize(context.Background()))

		entries := c.History().Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, history.KindSystemPrompt, entries[0].Kind)
		assert.Contains(t, entries[0].Text, "echo")
		assert.Equal(t, history.KindInstruction, entries[1].Kind)
		assert.Equal(t, "Build the thing.", entries[1].Text)
		assert.Equal(t, agent.StateRunning, c.State())
	})

	t.Run("empty instruction is a fatal InitError", func(t *testing.T) {
		r := tool.NewRegistry()
		c := agent.New(mock.New(), r, "")

		err := c.Initialize(context.Background())
		var initErr *agent.InitError
		require.ErrorAs(t, err, &initErr)
	})

	t.Run("cannot initialize twice", func(t *testing.T) {
		c := newController(t, mock.New(), []tool.Tool{echoTool(nil)})
		require.NoError(t, c.Initialize(context.Background()))

		err := c.Initialize(context.Background())
		var initErr *agent.InitError
		require.ErrorAs(t, err, &initErr)
		assert.Len(t, c.History().Entries(), 2)
	})

	t.Run("init failure surfaces through Run", func(t *testing.T) {
		client := mock.New("<terminate>")
		c := agent.New(client, tool.NewRegistry(), "")

		result, err := c.Run(context.Background())
		var initErr *agent.InitError
		require.ErrorAs(t, err, &initErr)
		assert.Equal(t, agent.StateFatal, result.State)
		assert.Zero(t, client.Calls())
	})
}

func TestControllerRun(t *testing.T) {
	t.Run("echo then terminate", func(t *testing.T) {
		executed := 0
		client := mock.New(
			`<tool_call>{"tool":"echo","arguments":{"text":"hi"}}</tool_call>`,
			`<terminate>`,
		)
		c := newController(t, client, []tool.Tool{echoTool(&executed)})

		result, err := c.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, agent.StateTerminated, result.State)
		assert.Equal(t, 2, result.TurnCount)
		assert.Equal(t, 1, executed)

		// system prompt, instruction, response, tool result, response
		entries := c.History().Entries()
		require.Len(t, entries, 5)
		assert.Equal(t, history.KindToolResult, entries[3].Kind)
		assert.True(t, entries[3].Result.OK)
		assert.Equal(t, "hi", entries[3].Result.Data["text"])
	})

	t.Run("exhausts the turn budget without terminate", func(t *testing.T) {
		client := mock.New("thinking...", "still thinking...", "hmm")
		c := newController(t, client, []tool.Tool{echoTool(nil)},
			agent.WithMaxTurns(3))

		result, err := c.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, agent.StateMaxTurnsExceeded, result.State)
		assert.Equal(t, 3, result.TurnCount)
		assert.Equal(t, 3, client.Calls())
	})

	t.Run("issues at most max_turns queries", func(t *testing.T) {
		client := mock.New("a", "b", "c", "d", "e")
		c := newController(t, client, nil, agent.WithMaxTurns(2))

		_, err := c.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, client.Calls())
	})

	t.Run("unknown tool never executes and surfaces the error", func(t *testing.T) {
		executed := 0
		client := mock.New(
			`<tool_call>{"tool":"missing","arguments":{}}</tool_call>`,
			`<terminate>`,
		)
		c := newController(t, client, []tool.Tool{echoTool(&executed)})

		result, err := c.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, agent.StateTerminated, result.State)
		assert.Zero(t, executed)

		entries := c.History().Entries()
		require.Len(t, entries, 5)
		assert.False(t, entries[3].Result.OK)
		assert.Contains(t, entries[3].Result.Error, "unknown tool")
	})

	t.Run("validation failure never executes", func(t *testing.T) {
		executed := 0
		client := mock.New(
			`<tool_call>{"tool":"echo","arguments":{}}</tool_call>`,
			`<terminate>`,
		)
		c := newController(t, client, []tool.Tool{echoTool(&executed)})

		result, err := c.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, agent.StateTerminated, result.State)
		assert.Zero(t, executed)

		entries := c.History().Entries()
		assert.False(t, entries[3].Result.OK)
		assert.Contains(t, entries[3].Result.Error, "text")
	})

	t.Run("panicking tool yields a failed result and the run continues", func(t *testing.T) {
		panicky := tool.New("boom", "Always panics.", schema.New(),
			func(ctx context.Context, env *tool.Environment, args map[string]any) (ai.ToolResult, error) {
				panic("kaboom")
			})
		client := mock.New(
			`<tool_call>{"tool":"boom","arguments":{}}</tool_call>`,
			`<terminate>`,
		)
		c := newController(t, client, []tool.Tool{panicky})

		result, err := c.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, agent.StateTerminated, result.State)
		assert.Equal(t, 2, result.TurnCount)

		entries := c.History().Entries()
		require.Len(t, entries, 5)
		assert.False(t, entries[3].Result.OK)
		assert.Contains(t, entries[3].Result.Error, "panicked")
	})

	t.Run("tool error return becomes a failed result", func(t *testing.T) {
		broken := tool.New("broken", "Always errors.", schema.New(),
			func(ctx context.Context, env *tool.Environment, args map[string]any) (ai.ToolResult, error) {
				return ai.ToolResult{}, errors.New("disk on fire")
			})
		client := mock.New(
			`<tool_call>{"tool":"broken","arguments":{}}</tool_call>`,
			`<terminate>`,
		)
		c := newController(t, client, []tool.Tool{broken})

		_, err := c.Run(context.Background())
		require.NoError(t, err)

		entries := c.History().Entries()
		assert.False(t, entries[3].Result.OK)
		assert.Contains(t, entries[3].Result.Error, "disk on fire")
	})

	t.Run("unparseable directive consumes the turn without a tool result", func(t *testing.T) {
		client := mock.New(
			`<tool_call>{broken json</tool_call> carry on`,
			`<terminate>`,
		)
		c := newController(t, client, []tool.Tool{echoTool(nil)})

		result, err := c.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, agent.StateTerminated, result.State)
		assert.Equal(t, 2, result.TurnCount)

		// system prompt, instruction, two responses, no tool result
		assert.Equal(t, 4, c.History().Len())
	})

	t.Run("provider failure after retries is fatal", func(t *testing.T) {
		c := newController(t, failingClient{}, []tool.Tool{echoTool(nil)},
			agent.WithRetryConfig(retry.Disabled()))

		result, err := c.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, agent.StateFatal, result.State)
		assert.Equal(t, result.Err, err)
		// The failed query appends nothing beyond initialization.
		assert.Equal(t, 2, c.History().Len())
	})
}

func TestRenderDecodeRoundTrip(t *testing.T) {
	t.Run("prompt-rendered argument names validate on decode", func(t *testing.T) {
		executed := 0
		client := mock.New(
			`<tool_call>{"tool":"echo","arguments":{"text":"round trip"}}</tool_call>`,
			`<terminate>`,
		)
		c := newController(t, client, []tool.Tool{echoTool(&executed)})
		require.NoError(t, c.Initialize(context.Background()))

		// The system prompt advertises the exact argument names a caller
		// needs for a valid invocation.
		prompt := c.History().Entries()[0].Text
		assert.Contains(t, prompt, "echo")
		assert.Contains(t, prompt, "text")

		result, err := c.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, agent.StateTerminated, result.State)
		assert.Equal(t, 1, executed)
		assert.True(t, c.History().Entries()[3].Result.OK)
	})
}
