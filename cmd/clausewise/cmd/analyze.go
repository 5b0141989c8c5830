package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clausewise/clausewise/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	analyzeURL      string
	analyzeFile     string
	analyzeIdentity string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a ToS document and print the findings",
	Long: `Analyze a Terms of Service document once and print the ranked
clauses and summary.

Examples:
  # Analyze a remote document
  clausewise analyze --url https://example.com/terms

  # Analyze pasted text from a file
  clausewise analyze --file terms.txt`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "URL of the ToS document")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "file containing ToS text")
	analyzeCmd.Flags().StringVar(&analyzeIdentity, "user", "local", "identity namespace for profile and snapshots")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if analyzeURL == "" && analyzeFile == "" {
		return fmt.Errorf("provide --url or --file")
	}

	cfg := GetConfig()
	p, _, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	req := pipeline.AnalyzeRequest{TosURL: analyzeURL}
	if analyzeFile != "" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		req.TosText = string(data)
	}

	result, err := p.Analyze(ctx, analyzeIdentity, req)
	if err != nil {
		return err
	}

	fmt.Printf("Clauses found: %d\n\n", len(result.Clauses))
	for _, c := range result.Comparison.Top {
		fmt.Printf("  [%s] %s (severity %d, risk %d)\n", c.Tag, c.Title, c.Severity, c.RiskScore)
		if c.Snippet != "" {
			fmt.Printf("      %s\n", c.Snippet)
		}
	}
	fmt.Printf("\n%s\n", result.Summary)
	return nil
}
