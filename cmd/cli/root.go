package main

import (
	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/config"
)

var (
	configPath  string
	githubToken string
	apiKey      string
)

var rootCmd = &cobra.Command{
	Use:   "inspector",
	Short: "inspector is the command-line interface for Code Inspector.",
	Long: `A CLI for Code Inspector: generate commit messages and pull request
descriptions from your working tree, push branches, run a one-off quality
review of a pull request and browse stored review outcomes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to the JSON config file")
	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub token (overrides GITHUB_TOKEN and the config file)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini or Anthropic API key (overrides the environment and the config file; unused by ollama)")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigFrom(configPath)
	if err != nil {
		return nil, err
	}
	if githubToken != "" {
		cfg.GitHub.Token = githubToken
	}
	// the CLI talks to the terminal, not to a log collector
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	return cfg, nil
}
