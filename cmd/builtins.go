package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/shellcraft/core/shell"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the commands the shell runs internally.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := shell.DefaultBuiltins()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 8, 2, ' ', 0)
		for _, name := range registry.Names() {
			fmt.Fprintf(tw, "%s\t%s\n", name, registry.Short(name))
		}

		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
