package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/webagent/mcp"
	"github.com/spetersoncode/webagent/tool"
	"github.com/spetersoncode/webagent/workspace"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp [dir]",
		Short: "Serve the tool set over the Model Context Protocol on stdio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			// The MCP surface does not claim a run; the workspace config is
			// honored when present (protected paths, allow-list) and an
			// unconfigured directory gets the full catalog.
			config := readConfig(root)
			env := tool.NewEnvironment(root, config)

			registry := tool.NewRegistry(env.ConfigStrings("allowed_tools")...)
			if err := registry.Register(catalog()...); err != nil {
				return err
			}
			if err := registry.Init(env); err != nil {
				return err
			}

			return mcp.ServeStdio(registry, mcp.WithName("webagent"))
		},
	}
}

// readConfig best-effort loads .webagent/config.json; a missing or broken
// file yields an empty configuration.
func readConfig(root string) map[string]any {
	data, err := os.ReadFile(filepath.Join(root, tool.DataDirName, workspace.ConfigFileName))
	if err != nil {
		return nil
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return nil
	}
	return config
}
