package cmd

import (
	"fmt"

	"github.com/josephlewis42/shellcraft/core/autocorrect"
	"github.com/spf13/cobra"
)

var learnedCmd = &cobra.Command{
	Use:   "learned",
	Short: "Manage the commands the shell has learned.",
}

var learnedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned commands.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		resolver, err := loadResolver()
		if err != nil {
			return err
		}

		for _, name := range resolver.Store.Commands() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var learnedForgetCmd = &cobra.Command{
	Use:   "forget NAME...",
	Short: "Stop correcting to the given commands.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		resolver, err := loadResolver()
		if err != nil {
			return err
		}

		for _, name := range args {
			if !resolver.Store.Forget(name) {
				return fmt.Errorf("%q isn't a learned command", name)
			}
		}
		return resolver.Store.Save()
	},
}

func loadResolver() (*autocorrect.Resolver, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return autocorrect.NewResolver(config)
}

func init() {
	rootCmd.AddCommand(learnedCmd)
	learnedCmd.AddCommand(learnedListCmd)
	learnedCmd.AddCommand(learnedForgetCmd)
}
