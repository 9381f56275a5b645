// KQL Commander – terminal client for AI-assisted KQL exploration.
//
// Entry point: initializes the Cobra root command and launches
// the Bubble Tea TUI by default (no subcommand required).
package main

import (
	"os"

	"github.com/kqlcommander/kqlcommander/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
