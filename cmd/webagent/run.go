package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/agent"
	"github.com/spetersoncode/webagent/provider/anthropic"
	"github.com/spetersoncode/webagent/provider/google"
	"github.com/spetersoncode/webagent/provider/mock"
	"github.com/spetersoncode/webagent/provider/openai"
	"github.com/spetersoncode/webagent/tool"
	"github.com/spetersoncode/webagent/workspace"
)

func runCmd() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Run the agent over a working context directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runAgent(cmd.Context(), dir, debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "mirror the run log to stderr")
	return cmd
}

func runAgent(ctx context.Context, dir string, debug bool) error {
	ws, err := workspace.Open(dir, debug)
	if err != nil {
		return err
	}
	defer ws.Close()

	client, err := buildClient(ctx, ws)
	if err != nil {
		return err
	}

	registry := tool.NewRegistry(ws.AllowedTools()...)
	if err := registry.Register(catalog()...); err != nil {
		return err
	}
	if err := registry.Init(ws.Environment()); err != nil {
		return err
	}

	controller := agent.New(client, registry, ws.Instruction(),
		agent.WithMaxTurns(ws.MaxTurns()),
		agent.WithLogger(ws.Logger()))

	result, err := controller.Run(ctx)
	if err != nil {
		return fmt.Errorf("run %s failed after %d turn(s): %w",
			controller.RunID(), result.TurnCount, err)
	}

	fmt.Printf("run %s finished: %s after %d turn(s)\n",
		controller.RunID(), result.State, result.TurnCount)
	return nil
}

// catalog returns every built-in tool. The workspace allow-list decides
// which of these a run may actually register.
func catalog() []tool.Tool {
	var tools []tool.Tool
	tools = append(tools, tool.FSTools()...)
	tools = append(tools, tool.TodoTools()...)
	tools = append(tools, tool.ServerTools()...)
	tools = append(tools, tool.HarnessTools()...)
	return tools
}

// buildClient selects the LLM provider from the workspace configuration.
func buildClient(ctx context.Context, ws *workspace.Workspace) (ai.Client, error) {
	switch ws.Provider() {
	case "mock":
		return mock.New(ws.MockResponses()...), nil
	case "gemini", "google":
		return google.New(ctx, ws.APIKey(), google.WithModel(ws.Model()))
	case "anthropic":
		opts := []anthropic.ClientOption{anthropic.WithModel(ws.Model())}
		if key := ws.APIKey(); key != "" {
			opts = append(opts, anthropic.WithAPIKey(key))
		}
		return anthropic.New(opts...), nil
	case "openai":
		return openai.New(ws.APIKey(), openai.WithModel(ws.Model())), nil
	default:
		return nil, fmt.Errorf("unknown llm_type %q: use mock, gemini, anthropic, or openai", ws.Provider())
	}
}
