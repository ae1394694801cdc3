package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/gitutil"
	"github.com/sevigo/code-inspector/internal/logger"
)

var pushCmd = &cobra.Command{
	Use:   "push [branch]",
	Short: "Push a branch to origin, using the configured GitHub token",
	Long: `Push a branch to origin. When a GitHub token is configured and origin is an
HTTPS GitHub URL the token is used as the credential; otherwise the push is
unauthenticated. Defaults to the current branch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPush,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.Logging, nil)

	repo, err := gitutil.Open(".", gitutil.WithToken(cfg.GitHub.Token), gitutil.WithLogger(log))
	if err != nil {
		return fmt.Errorf("%w\n\nTip: run inspector inside a git working tree", err)
	}

	var branch string
	if len(args) == 1 {
		branch = args[0]
	} else if branch, err = repo.CurrentBranch(); err != nil {
		return fmt.Errorf("failed to determine current branch: %w", err)
	}

	if cfg.GitHub.Token == "" {
		dimColor.Println("No GitHub token configured, pushing without credentials.")
	}
	titleColor.Printf("Pushing %s to origin...\n", branch)
	if !repo.Push(ctx, branch) {
		errorColor.Println("Push failed, see the log for details.")
		return errors.New("push failed")
	}
	successColor.Println("Pushed.")
	return nil
}
