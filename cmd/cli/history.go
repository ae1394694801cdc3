package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/code-inspector/internal/wire"
)

var (
	historyRepo  string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored review outcomes, newest first",
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

		store, cleanup, err := wire.InitializeStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open outcome store: %w", err)
		}
		defer cleanup()

		outcomes, err := store.ListOutcomes(ctx, historyRepo, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to retrieve review outcomes: %w", err)
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(outcomes)
		}

		if len(outcomes) == 0 {
			dimColor.Fprintln(out, "No reviews recorded yet.")
			return nil
		}

		table := newTable(out, []string{"When", "Repository", "PR", "Action", "Status", "Issues", "Review"})
		for _, o := range outcomes {
			_ = table.Append([]string{
				o.CreatedAt.Local().Format(time.DateTime),
				o.Repository,
				"#" + strconv.Itoa(o.PRNumber),
				o.Action,
				statusColor(o.Status).Sprint(o.Status),
				strconv.Itoa(o.IssuesFound),
				o.ReviewURL,
			})
		}
		return table.Render()
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	historyCmd.Flags().StringVar(&historyRepo, "repo", "", "Only show reviews of this owner/name repository")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of reviews to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(historyCmd)
}
