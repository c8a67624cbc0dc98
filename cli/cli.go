package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/spf13/cobra"
)

func New(cliConfig *Config) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "encoded <command> <subcommand> [flags]",
		Short:         "4DN portal search service",
		Long:          "Faceted search and browse over the 4DN portal Elasticsearch index.",
		SilenceErrors: true,
		SilenceUsage:  false,
		Example: heredoc.Doc(`
		$ encoded server start
		$ encoded server migrate
		$ encoded load ./inserts.json
		$ encoded search "type=Biosource&status=released"
		`),
		Annotations: map[string]string{
			"group": "core",
			"help:learn": heredoc.Doc(`
				Use 'encoded <command> --help' for info about a command.
			`),
			"help:feedback": heredoc.Doc(`
				Open an issue here https://github.com/goto/encoded/issues
			`),
		},
	}

	rootCmd.AddCommand(
		serverCmd(cliConfig),
		loadCommand(cliConfig),
		searchCommand(cliConfig),
		configCommand(cliConfig),
		versionCmd(),
	)

	// Help topics
	rootCmd.AddCommand(cmdx.SetCompletionCmd("encoded"))
	rootCmd.AddCommand(cmdx.SetRefCmd(rootCmd))
	rootCmd.AddCommand(cmdx.SetHelpTopicCmd("environment", envHelp))
	cmdx.SetHelp(rootCmd)

	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")

	return rootCmd
}
