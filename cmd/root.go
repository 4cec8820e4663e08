package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/shellcraft/core"
	"github.com/josephlewis42/shellcraft/core/config"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
)

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shellcraft",
	Short: "An interactive shell that explains its errors",
	Long: `ShellCraft runs pipelines of programs like any other shell, corrects
common typos in command names and explains why a command failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := config.LoadOrInitialize(cfgPath, log.New(cmd.ErrOrStderr(), "", 0))
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("command") {
			session, err := core.NewCommandSession(configuration, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer session.Close()
			session.Execute(commandLine)
			return nil
		}

		session, err := core.NewSession(configuration, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		shell, err := core.NewShell(configuration, session)
		if err != nil {
			session.Close()
			return err
		}
		defer shell.Close()

		shell.Run()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultDir(), "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit")
}
