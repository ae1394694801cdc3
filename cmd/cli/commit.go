package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/gitutil"
	"github.com/sevigo/code-inspector/internal/wire"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a conventional commit message for the staged changes",
	Long: `Generate a conventional commit message for the staged changes.

The message is printed, not committed. Pipe it into git if you like it:

  inspector commit | git commit -F -`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, err := gitutil.Open(".")
	if err != nil {
		return fmt.Errorf("%w\n\nTip: run inspector inside a git working tree", err)
	}

	diff := repo.StagedDiff(ctx)
	if diff == "" {
		warnColor.Println("No staged changes. Stage files with `git add` first.")
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	agent, cleanup, err := wire.InitializeAgent(ctx, cfg, wire.ExplicitKey(apiKey))
	if err != nil {
		return fmt.Errorf("failed to initialize generation agent: %w", err)
	}
	defer cleanup()

	warnFallback(agent.Live())
	msg, err := agent.CommitMessage(ctx, diff)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
