// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server exposing workouts, metrics, and the coach.
package main

import (
	"github.com/harperreed/fit/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:         "mcp",
	Annotations: map[string]string{ownsTerminal: ""},
	Short:       "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and shares the configured storage
backend.

CONFIGURATION:

  {
    "mcpServers": {
      "fit": {
        "command": "fit",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_workout      Save a workout with exercises and sets
  list_workouts    List recent workouts
  get_workout      Get a workout with all exercises and sets
  delete_workout   Delete a workout
  dashboard        Totals, streak, and recent activity
  progress         Volume trend, weekly frequency, and lifted tons
  ask_coach        Ask the AI coach a question

AVAILABLE RESOURCES:

  fit://workouts/recent   Recent workouts
  fit://dashboard         Dashboard summary
  fit://progress          Progress report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(fitApp)
		if err != nil {
			return err
		}
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
