package cmd

import (
	"bytes"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/logging"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		recordsPath string
		query       string
		concurrency int
		format      string
		outPath     string
		filters     filterFlags
		llmOpts     llmFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize threads with an LLM and score their relevance",
		Long: `Send each selected thread to an LLM, which returns a summary, topics, a
relevance score against the research query, a sentiment and key insights.
Results are printed sorted by relevance.

A failed completion never aborts the run; that thread gets a placeholder result.

Requires OPENAI_API_KEY, or LLM_PROVIDER=anthropic with ANTHROPIC_API_KEY.

Example:
  courtmail analyze --records records.json --search deposit --query "withheld security deposit"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := loadThreads(recordsPath)
			if err != nil {
				return err
			}
			threads, err = filters.selectThreads(threads)
			if err != nil {
				return err
			}

			provider, stop, err := startInstrumentation(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			analyzer, err := newAnalyzer(&llmOpts, provider.Metrics())
			if err != nil {
				return err
			}

			results := analyzer.AnalyzeThreads(cmd.Context(), threads, query, concurrency)

			degraded := 0
			for _, r := range results {
				if r.Degraded() {
					degraded++
				}
			}
			logging.WithOperation(slog.Default(), "analyze").Info("analysis complete",
				slog.Int("threads", len(results)),
				slog.Int("degraded", degraded))

			var buf bytes.Buffer
			if err := analysis.WriteResults(&buf, results, format); err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outPath, buf.Bytes())
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "Email records file (JSON or YAML)")
	cmd.Flags().StringVar(&query, "query", "", "Research query the relevance score is measured against")
	cmd.Flags().IntVar(&concurrency, "concurrency", analysis.DefaultConcurrency, "Maximum concurrent LLM requests")
	cmd.Flags().StringVar(&format, "format", analysis.FormatJSON, "Output format: json or yaml")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default: stdout)")
	filters.register(cmd, "search", true)
	llmOpts.register(cmd)
	return cmd
}
