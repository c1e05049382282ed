// Package cli wires the cobra command tree: one subcommand per
// lifecycle phase of the automation.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/p-blackswan/claudechain/internal/config"
	"github.com/p-blackswan/claudechain/internal/engine"
	perrors "github.com/p-blackswan/claudechain/internal/errors"
	"github.com/p-blackswan/claudechain/internal/git"
	"github.com/p-blackswan/claudechain/internal/github"
)

var (
	cfg    *config.Runtime
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "claudechain",
	Short: "Checklist-driven PR automation",
	Long: `claudechain drives an AI coding agent through a markdown task
checklist, opening one pull request per task, gating on reviewer or
project capacity, and reporting status to the workflow summary and
Slack.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = newLogger(cfg.LogLevel)
		return nil
	},
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}

// Execute runs the CLI. Legitimate no-op outcomes (no capacity, no
// tasks) exit 0 with a notice annotation; fatal errors exit 1 with an
// error annotation. Each fatal error is reported once, without
// retries: the enclosing workflow schedule is the retry mechanism.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if perrors.IsNoOp(err) {
			fmt.Printf("::notice::%s\n", err)
			return
		}
		fmt.Printf("::error::%s\n", err)
		os.Exit(1)
	}
}

// newEngine builds the engine with the configured GitHub auth and,
// when the process runs inside a git checkout, a local git runner.
func newEngine() (*engine.Engine, error) {
	var ghClient *github.Client
	var err error
	if cfg.GitHubAppEnabled() {
		app, appErr := github.NewApp(cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath, logger)
		if appErr != nil {
			return nil, appErr
		}
		ghClient, err = github.NewAppClient(app, cfg.Repository, logger)
	} else {
		ghClient, err = github.NewClient(cfg.Token, cfg.Repository, logger)
	}
	if err != nil {
		return nil, err
	}

	var gitRunner engine.Git
	if r := git.NewRunner(".", logger); insideRepo(r) {
		gitRunner = r
	}
	return engine.New(cfg, ghClient, gitRunner, logger)
}

func insideRepo(r *git.Runner) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.CurrentBranch(ctx)
	return err == nil
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(discoverReadyCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(statsCmd)
}
