package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/schema"
	"github.com/spetersoncode/webagent/tool"
)

// Remote connects to an external MCP server and exposes its tools as
// registry-compatible tools, so a run can mix local built-ins with tools
// served by another process.
//
// Remote is safe for concurrent use. The tool list is cached locally and can
// be refreshed with [Remote.Refresh].
type Remote struct {
	client *client.Client
	mu     sync.RWMutex
	tools  []tool.Tool
}

// Connect starts an MCP server subprocess and connects over stdio. The
// command is the server executable; args are passed through.
func Connect(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("creating mcp client: %w", err)
	}
	return connect(ctx, c)
}

func connect(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting mcp client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "webagent",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("initializing mcp session: %w", err)
	}

	r := &Remote{client: c}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("listing mcp tools: %w", err)
	}
	return r, nil
}

// Close shuts down the connection to the MCP server.
func (r *Remote) Close() error {
	return r.client.Close()
}

// Refresh re-fetches the server's tool list.
func (r *Remote) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	tools := make([]tool.Tool, 0, len(result.Tools))
	for _, t := range result.Tools {
		tools = append(tools, &remoteTool{
			remote:      r,
			name:        t.Name,
			description: t.Description,
			schema:      fromInputSchema(t.InputSchema),
		})
	}

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

// Tools returns the server's tools, ready to register into a run's registry.
func (r *Remote) Tools() []tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tool.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// call proxies one invocation to the server and flattens the MCP result
// into a tool result.
func (r *Remote) call(ctx context.Context, name string, args map[string]any) (ai.ToolResult, error) {
	result, err := r.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return ai.ErrorResult(err.Error()), nil
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		}
	}
	text := strings.Join(parts, "\n")

	if result.IsError {
		return ai.ErrorResult(text), nil
	}
	return ai.OKResult(map[string]any{"content": text}), nil
}

// remoteTool adapts one server-side tool to the registry's Tool capability.
type remoteTool struct {
	remote      *Remote
	name        string
	description string
	schema      *schema.Schema
}

func (t *remoteTool) Name() string           { return t.name }
func (t *remoteTool) Description() string    { return t.description }
func (t *remoteTool) Schema() *schema.Schema { return t.schema }

// Init is a no-op: remote tools run in the server's own environment.
func (t *remoteTool) Init(env *tool.Environment) error { return nil }

// Execute proxies the call to the MCP server.
func (t *remoteTool) Execute(ctx context.Context, args map[string]any) (ai.ToolResult, error) {
	return t.remote.call(ctx, t.name, args)
}
