package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the built-in tools and their arguments",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, t := range catalog() {
				fmt.Fprintf(w, "%s\t%s\n", t.Name(), t.Description())
				for _, arg := range t.Schema().Arguments() {
					required := "optional"
					if arg.Required {
						required = "required"
					}
					fmt.Fprintf(w, "  %s\t(%s, %s) %s\n", arg.Name, arg.Type, required, arg.Description)
				}
			}
			return w.Flush()
		},
	}
}
