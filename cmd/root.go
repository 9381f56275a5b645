// Package cmd contains all Cobra commands for KQL Commander.
//
// Design decision: the root command launches the TUI directly.
// Backend endpoints come from the environment (or a .env file), not
// CLI flags. Running `kqlcommander` with no arguments starts the
// interactive UI and fetches the schema tree.
package cmd

import (
	"github.com/kqlcommander/kqlcommander/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kqlcommander",
	Short: "Terminal client for AI-assisted KQL exploration",
	Long: `KQL Commander is a terminal client featuring:
  • Database/table/column tree with selectable schema scope
  • Natural-language to KQL via a completion service
  • Query execution with a tabular results grid
  • One-key repair loop for syntax/semantic query errors
  • Optional SSH tunnel for backends behind a bastion

Run 'kqlcommander' to start the TUI. Configure endpoints via
KQLC_BASE_URL and friends (see .env support).`,
	// Running with no subcommand launches the TUI.
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Start()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
