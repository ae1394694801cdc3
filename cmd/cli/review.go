package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/internal/gitutil"
	"github.com/sevigo/code-inspector/internal/wire"
)

var verbose bool

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Run a quality review for a GitHub Pull Request",
	Long: `Run a quality review for a GitHub Pull Request without a webhook.

The review fetches the PR, builds the quality report, asks the model for an
APPROVE/REJECT verdict, posts it to the PR and stores the outcome.

Examples:
  inspector review https://github.com/owner/repo/pull/123
  inspector review --verbose https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with timing information")
	rootCmd.AddCommand(reviewCmd)
}

// stepTimer tracks timing for verbose output
type stepTimer struct {
	stepNum    int
	totalSteps int
	start      time.Time
	verbose    bool
}

func newStepTimer(totalSteps int, verbose bool) *stepTimer {
	return &stepTimer{totalSteps: totalSteps, verbose: verbose}
}

func (t *stepTimer) step(name string) {
	t.stepNum++
	t.start = time.Now()
	if t.verbose {
		titleColor.Printf("\nStep %d/%d: %s...\n", t.stepNum, t.totalSteps, name)
	} else {
		fmt.Printf("%s...\n", name)
	}
}

func (t *stepTimer) done(details ...string) {
	if t.verbose {
		elapsed := time.Since(t.start).Round(time.Millisecond)
		successColor.Printf("   done (%s)\n", elapsed)
		for _, d := range details {
			dimColor.Printf("   - %s\n", d)
		}
	}
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	prURL := args[0]

	timer := newStepTimer(2, verbose)
	overallStart := time.Now()

	titleColor.Println("Code Inspector - PR Review")
	dimColor.Printf("   Target: %s\n\n", prURL)

	owner, repoName, prNumber, err := gitutil.ParsePullRequestURL(prURL)
	if err != nil {
		return fmt.Errorf("invalid PR URL: %w\n\nExpected format: https://github.com/owner/repo/pull/123", err)
	}

	timer.step("Initializing application")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	job, cleanup, err := wire.InitializeReviewJob(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize review: %w", err)
	}
	defer cleanup()
	timer.done("provider: "+cfg.AI.LLMProvider, "store: "+cfg.Database.Driver)

	event := &core.Event{
		Kind:         core.EventPullRequestOpened,
		Type:         "cli",
		Action:       "manual",
		RepoOwner:    owner,
		RepoName:     repoName,
		RepoFullName: owner + "/" + repoName,
		PRNumber:     prNumber,
	}

	timer.step("Reviewing pull request")
	outcome, err := job.Run(ctx, event)
	if err != nil {
		if cfg.GitHub.Token == "" {
			return fmt.Errorf("%w\n\nTip: set GITHUB_TOKEN or run `inspector config set-token`", err)
		}
		return fmt.Errorf("review failed: %w", err)
	}
	timer.done()

	if verbose {
		dimColor.Printf("\nTotal time: %s\n", time.Since(overallStart).Round(time.Millisecond))
	}
	printOutcome(outcome)
	return nil
}

func printOutcome(o *core.ReviewOutcome) {
	separator := strings.Repeat("=", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Printf("REVIEW %s #%d\n", o.Repository, o.PRNumber)
	titleColor.Println(separator)
	fmt.Println()

	boldColor.Print("Status: ")
	statusColor(o.Status).Println(o.Status)
	boldColor.Print("Issues: ")
	fmt.Println(o.IssuesFound)
	if o.ReviewURL != "" {
		boldColor.Print("Review: ")
		fmt.Println(o.ReviewURL)
	} else {
		warnColor.Println("The review could not be posted to GitHub.")
	}

	if len(o.Comments) > 0 {
		fmt.Println()
		for _, c := range o.Comments {
			fmt.Printf("  - %s\n", c)
		}
	}
	fmt.Println()
}
