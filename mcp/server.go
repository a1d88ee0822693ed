// Package mcp bridges the tool registry and the Model Context Protocol in
// both directions: expose a registry's tools to MCP clients over stdio, and
// pull an external MCP server's tools into a run's registry.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/webagent/tool"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server exposing every tool in the registry.
// Arguments are validated against the tool's schema before execution, the
// same gate the agent controller applies.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "webagent",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, t := range registry.Tools() {
		mcpTool := mcp.NewToolWithRawSchema(t.Name(), t.Description(), inputSchema(t.Schema()))
		s.AddTool(mcpTool, toolHandler(t))
	}
	return s
}

// toolHandler adapts one registry tool to an MCP tool handler. Failures are
// reported as MCP error results, never as transport errors.
func toolHandler(t tool.Tool) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		validated, err := t.Schema().Validate(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := t.Execute(ctx, validated)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !result.OK {
			return mcp.NewToolResultError(result.Error), nil
		}

		data, err := json.Marshal(result.Data)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// ServeStdio serves the registry over stdin/stdout, the standard transport
// for MCP servers invoked as subprocesses.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
