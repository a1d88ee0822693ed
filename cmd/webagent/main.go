// Command webagent runs an autonomous web-app-building agent over a working
// context directory prepared with a .webagent/ configuration.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Provider API keys may live in a local .env; absence is fine.
	godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webagent",
		Short: "Autonomous web-app-building agent",
		Long: `webagent drives an LLM through a bounded tool-calling loop over a
working context directory. The directory's .webagent/config.json selects the
provider and tool set; .webagent/instruction.md holds the task.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(runCmd())
	cmd.AddCommand(toolsCmd())
	cmd.AddCommand(mcpCmd())
	return cmd
}
