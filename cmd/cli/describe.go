package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/gitutil"
	"github.com/sevigo/code-inspector/internal/wire"
)

var (
	describeBase string
	describeRaw  bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Generate a pull request description for the current branch",
	Long: `Generate a pull request description from the commits and the diff of the
current branch against a base branch.

Examples:
  inspector describe
  inspector describe --base develop --raw > PR.md`,
	Args: cobra.NoArgs,
	RunE: runDescribe,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	describeCmd.Flags().StringVar(&describeBase, "base", "main", "Base branch the pull request targets")
	describeCmd.Flags().BoolVar(&describeRaw, "raw", false, "Print Markdown instead of rendering it")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, err := gitutil.Open(".")
	if err != nil {
		return fmt.Errorf("%w\n\nTip: run inspector inside a git working tree", err)
	}

	commits := slices.Collect(repo.CommitHistory(describeBase))
	if len(commits) == 0 {
		warnColor.Printf("No commits found on this branch that are not on %s.\n", describeBase)
		return nil
	}
	diff := repo.BranchDiff(ctx, describeBase)

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
	dimColor.Printf("%d commits against %s\n", len(commits), describeBase)

	description, err := agent.PRDescription(ctx, commits, diff)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if describeRaw {
		fmt.Fprintln(out, description)
		return nil
	}

	if rendered, err := renderMarkdown(description); err == nil {
		fmt.Fprint(out, rendered)
		return nil
	}
	fmt.Fprintln(out, description)
	return nil
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
