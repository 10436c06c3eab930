// ABOUTME: CLI commands for viewing and changing configuration.
// ABOUTME: Reads and writes the JSON config file under XDG_CONFIG_HOME.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fit/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "View or change configuration",
	Annotations: map[string]string{skipStorage: ""},
	Long: `View or change fit configuration.

KEYS:

  backend                  memory (default), sqlite, or charm
  data_dir                 where the sqlite database lives (default ~/.local/share/fit)
  coach_model              generative model for the coach (default gemini-2.5-flash)
  api_key_env              extra environment variable holding the coach API key
  request_timeout_seconds  limit for a single coach request (default 60)

EXAMPLES:

  fit config show
  fit config set backend sqlite`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", faint.Sprint(padRight("file", 24)), config.GetConfigPath())
		fmt.Printf("%s %s\n", faint.Sprint(padRight("backend", 24)), c.GetBackend())
		fmt.Printf("%s %s\n", faint.Sprint(padRight("data_dir", 24)), c.GetDataDir())
		fmt.Printf("%s %s\n", faint.Sprint(padRight("coach_model", 24)), c.GetCoachModel())
		fmt.Printf("%s %d\n", faint.Sprint(padRight("request_timeout_seconds", 24)), int(c.GetRequestTimeout().Seconds()))
		if c.APIKeyEnv != "" {
			fmt.Printf("%s %s\n", faint.Sprint(padRight("api_key_env", 24)), c.APIKeyEnv)
		}
		if c.APIKey() != "" {
			color.Green("✓ Coach API key found")
		} else {
			color.Yellow("⚠ No coach API key; set %s", config.EnvGeminiAPIKey)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}

		key := strings.ToLower(args[0])
		if err := c.Set(key, args[1]); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		color.Green("✓ Set %s = %s", key, args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
