// ABOUTME: Root Cobra command for the fit CLI.
// ABOUTME: Handles config, storage, and app lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/harperreed/fit/internal/app"
	"github.com/harperreed/fit/internal/coach"
	"github.com/harperreed/fit/internal/config"
	"github.com/harperreed/fit/internal/logging"
	"github.com/harperreed/fit/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

const (
	// skipStorage marks commands that manage storage themselves.
	skipStorage = "skip-storage"
	// ownsTerminal marks commands whose stdout or screen must stay free
	// of log output.
	ownsTerminal = "owns-terminal"
)

var (
	cfg      *config.Config
	repo     storage.Repository
	fitApp   *app.App
	logLevel string
	logFile  string
	logJSON  bool

	log       = logrus.New()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "fit",
	Short: "Strength training log with an AI coach",
	Long: `Fit is a CLI tool for logging strength workouts and tracking progress.

WHAT IT TRACKS:

  Workouts     name, date, duration, notes
  Exercises    named movements within a workout
  Sets         reps, weight, and whether the set was completed

QUICK START:

  $ fit dashboard                                   # Totals, streak, recent activity
  $ fit log --name "Push" -e "Bench Press:10x135,8x155"
  $ fit workouts list                               # See recent workouts
  $ fit progress                                    # Volume and weekly frequency
  $ fit coach "How do I break a bench plateau?"     # Ask the coach
  $ fit ui                                          # Full-screen interface

STORAGE:

  The default backend keeps the demo workouts in memory for the session.
  Pick a persistent backend with:

  $ fit config set backend sqlite    # ~/.local/share/fit/fit.db
  $ fit config set backend charm     # Charm KV, synced across devices

COACH:

  Set GEMINI_API_KEY (or API_KEY) to talk to the coach. Without a key the
  coach answers with a fallback message.

MCP INTEGRATION:

  Run 'fit mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "fit": { "command": "fit", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || skipsStorage(cmd) {
			return setupLogging(logFile)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		file := logFile
		if file == "" && hasAnnotation(cmd, ownsTerminal) {
			file = filepath.Join(cfg.GetDataDir(), "fit.log")
		}
		if err := setupLogging(file); err != nil {
			return err
		}

		repo, err = cfg.OpenStorage(time.Now())
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		advisor := coach.NewAdvisorFromKey(cmd.Context(), cfg.APIKey(), cfg.GetCoachModel(),
			coach.WithTimeout(cfg.GetRequestTimeout()),
			coach.WithAdvisorLogger(log),
		)

		fitApp, err = app.New(
			app.WithRepository(repo),
			app.WithAdvisor(advisor),
			app.WithLogger(log),
		)
		if err != nil {
			_ = repo.Close()
			repo = nil
			return fmt.Errorf("failed to start: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStorage()
	},
}

// closeStorage stops the app, closes the repository opened by
// PersistentPreRunE, and closes the log file.
func closeStorage() error {
	var err error
	if fitApp != nil {
		fitApp.Close()
		fitApp = nil
	}
	if repo != nil {
		err = multierr.Append(err, repo.Close())
		repo = nil
	}
	if logCloser != nil {
		err = multierr.Append(err, logCloser.Close())
		logCloser = nil
	}
	return err
}

func setupLogging(file string) error {
	closer, err := logging.Setup(log, logging.Params{Level: logLevel, File: file, JSON: logJSON})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logCloser = closer
	return nil
}

// skipsStorage reports whether cmd or one of its parents opts out of the
// shared storage lifecycle.
func skipsStorage(cmd *cobra.Command) bool {
	return hasAnnotation(cmd, skipStorage)
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[key]; ok {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file (default stderr; ui and mcp use fit.log in the data dir)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")
}
