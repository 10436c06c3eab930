// ABOUTME: CLI command for talking to the coach.
// ABOUTME: Answers one question from args or runs a line-based chat loop.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fit/internal/app"
	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/models"
	"github.com/spf13/cobra"
)

var coachCmd = &cobra.Command{
	Use:   "coach [question]",
	Short: "Ask the AI coach",
	Long: `Ask the AI coach about training, form, or recovery.

With a question the coach answers once. Without one, fit starts a chat;
type 'exit' or press Ctrl-D to leave.

The coach needs GEMINI_API_KEY (or API_KEY) in the environment.

EXAMPLES:

  fit coach "How many rest days should I take?"
  fit coach`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := fitApp.Navigate(models.ViewCoach); err != nil {
			return err
		}

		if len(args) > 0 {
			return askOnce(cmd, fitApp, strings.Join(args, " "))
		}
		return chatLoop(cmd, fitApp, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func askOnce(cmd *cobra.Command, a *app.App, question string) error {
	reply, ok, err := a.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("question is empty")
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return nil
}

func chatLoop(cmd *cobra.Command, a *app.App, in io.Reader, out io.Writer) error {
	coachName := color.New(color.FgGreen, color.Bold)
	coachName.Fprint(out, "Coach: ")
	fmt.Fprintln(out, coach.WelcomeText)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply, ok, err := a.Ask(cmd.Context(), line)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		coachName.Fprint(out, "Coach: ")
		fmt.Fprintln(out, reply.Text)
	}
}

func init() {
	rootCmd.AddCommand(coachCmd)
}
