package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/gitutil"
)

var statusJSON bool

type repoStatus struct {
	Repository   bool   `json:"repository"`
	Root         string `json:"root,omitempty"`
	Branch       string `json:"branch,omitempty"`
	Remote       string `json:"remote,omitempty"`
	Dirty        bool   `json:"dirty"`
	StagedBytes  int    `json:"staged_bytes"`
	GitHubToken  bool   `json:"github_token"`
	LLMProvider  string `json:"llm_provider"`
	OutcomeStore string `json:"outcome_store"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree and configuration status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st := repoStatus{
			GitHubToken:  cfg.GitHub.Token != "",
			LLMProvider:  cfg.AI.LLMProvider,
			OutcomeStore: cfg.Database.Driver,
		}
		if repo, err := gitutil.Open("."); err == nil {
			st.Repository = true
			st.Root = repo.Root()
			st.Branch, _ = repo.CurrentBranch()
			st.Remote, _ = repo.RepoFullName()
			st.Dirty = repo.HasUnstagedChanges()
			st.StagedBytes = len(repo.StagedDiff(ctx))
		}

		out := cmd.OutOrStdout()
		if statusJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(st)
		}

		if !st.Repository {
			warnColor.Fprintln(out, "Not inside a git repository.")
		} else {
			titleColor.Fprintf(out, "%s", st.Root)
			fmt.Fprintf(out, " (%s)\n", st.Branch)
			if st.Remote != "" {
				dimColor.Fprintf(out, "  remote:  %s\n", st.Remote)
			}
			if st.Dirty {
				warnColor.Fprintln(out, "  working tree has uncommitted changes")
			} else {
				successColor.Fprintln(out, "  working tree clean")
			}
			fmt.Fprintf(out, "  staged:  %d bytes of diff\n", st.StagedBytes)
		}
		fmt.Fprintf(out, "  token:   %s\n", maskSecret(cfg.GitHub.Token))
		fmt.Fprintf(out, "  model:   %s %s\n", cfg.AI.LLMProvider, cfg.AI.Model)
		fmt.Fprintf(out, "  store:   %s\n", cfg.Database.Driver)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status as JSON")
	rootCmd.AddCommand(statusCmd)
}
