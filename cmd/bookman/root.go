package main

import (
	"github.com/spf13/cobra"
)

// app is built once per invocation in the root PersistentPreRunE and
// shared by the subcommands.
var app *App

var rootCmd = &cobra.Command{
	Use:   "bookman",
	Short: "Budget workbook catalog manager",
	Long: `bookman keeps a catalog of budget workbooks in sync with the
folders of your configured financial institutions and workflows:
it verifies folders, discovers workbook files, reconciles them into
the catalog and tracks the current working selection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		app, err = newApp(cmd.Context())
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(
		initCmd,
		fisCmd,
		workflowsCmd,
		workbooksCmd,
		useCmd,
		loadCmd,
		saveCmd,
		runCmd,
		pruneCmd,
		versionCmd,
	)
}
