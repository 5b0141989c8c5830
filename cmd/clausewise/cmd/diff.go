package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	diffURL      string
	diffIdentity string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare a ToS document against its stored snapshot",
	Long: `Re-fetch a ToS URL, re-analyze it, and report whether it changed
since the last stored snapshot and how many new clauses appeared. The
snapshot is replaced with the current state afterwards.

Example:
  clausewise diff --url https://example.com/terms`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringVar(&diffURL, "url", "", "URL of the ToS document (required)")
	diffCmd.Flags().StringVar(&diffIdentity, "user", "local", "identity namespace for profile and snapshots")
	diffCmd.MarkFlagRequired("url")
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	p, _, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	diff, err := p.Diff(ctx, diffIdentity, diffURL)
	if err != nil {
		return err
	}

	fmt.Printf("Changed: %v\n", diff.Changed)
	if diff.PrevHash != "" {
		fmt.Printf("Previous hash: %s\n", diff.PrevHash)
	}
	fmt.Printf("Current hash:  %s\n", diff.CurrHash)
	fmt.Printf("New clauses:   %d\n", diff.AddedClauses)
	return nil
}
