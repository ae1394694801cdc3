package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the config file",
}

var setTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store a GitHub token in the config file",
	Long: `Store a GitHub token in the config file. The GITHUB_TOKEN environment
variable still takes precedence over the stored value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveValue(configPath, "github_token", args[0]); err != nil {
			return err
		}
		successColor.Fprintf(cmd.OutOrStdout(), "GitHub token saved to %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with credentials masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		boldColor.Fprintln(out, configPath)
		table := newTable(out, []string{"Key", "Value"})
		rows := [][]string{
			{"github_token", maskSecret(cfg.GitHub.Token)},
			{"webhook_secret", maskSecret(cfg.GitHub.WebhookSecret)},
			{"llm_provider", cfg.AI.LLMProvider},
			{"llm_model", cfg.AI.Model},
			{"google_api_key", maskSecret(cfg.AI.GoogleAPIKey)},
			{"anthropic_api_key", maskSecret(cfg.AI.AnthropicAPIKey)},
			{"max_pr_lines", fmt.Sprint(cfg.Quality.MaxPRLines)},
			{"coverage_threshold", fmt.Sprint(cfg.Quality.CoverageThreshold)},
			{"lint_strict", fmt.Sprint(cfg.Quality.LintStrict)},
			{"auto_approve", fmt.Sprint(cfg.Quality.AutoApprove)},
			{"db_driver", cfg.Database.Driver},
			{"db_path", cfg.Database.Path},
		}
		for _, r := range rows {
			_ = table.Append(r)
		}
		return table.Render()
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	configCmd.AddCommand(setTokenCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
