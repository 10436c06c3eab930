// ABOUTME: CLI command for the full-screen terminal interface.
// ABOUTME: Hands the app to the Bubble Tea program.
package main

import (
	"github.com/harperreed/fit/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:         "ui",
	Annotations: map[string]string{ownsTerminal: ""},
	Short:       "Open the interactive interface",
	Long: `Open the full-screen interface with dashboard, log, progress, and coach views.

KEYS:

  tab / shift+tab   Switch views
  1-4               Jump to a view
  enter             Run a log command or send a message to the coach
  esc               Cancel the draft or return to the dashboard
  ctrl+c            Quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), fitApp)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
