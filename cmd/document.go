package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/document"
)

func newDocumentCmd() *cobra.Command {
	var (
		recordsPath string
		format      string
		analyze     bool
		query       string
		concurrency int
		outPath     string
		chromePath  string
		pdfTimeout  time.Duration
		filters     filterFlags
		llmOpts     llmFlags
	)

	cmd := &cobra.Command{
		Use:   "document",
		Short: "Generate a court-ready evidence document",
		Long: `Assemble the selected threads into an evidence document with a header,
one section per thread and message, and a legal disclaimer footer.

Threads given with --thread appear in that order; otherwise the filtered threads
appear most recently active first.

Formats:
  md    Markdown (default)
  html  Print-styled HTML
  pdf   HTML printed to PDF with headless Chrome/Chromium (see --chrome-path)

Example:
  courtmail document --records records.json --thread 18c1 --thread 18d4 --format pdf --out evidence.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := document.ParseFormat(format)
			if err != nil {
				return err
			}
			if outFormat == document.FormatPDF && (outPath == "" || outPath == "-") {
				return fmt.Errorf("--out is required for pdf output")
			}

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

			opts := []document.GeneratorOption{
				document.WithGeneratorMetrics(provider.Metrics()),
				document.WithGeneratorLogger(slog.Default()),
				document.WithPDFRenderer(document.NewChromeRenderer(chromePath, pdfTimeout)),
			}
			if analyze {
				analyzer, err := newAnalyzer(&llmOpts, provider.Metrics())
				if err != nil {
					return err
				}
				opts = append(opts, document.WithAnalyzer(analyzer))
			}

			out, err := document.NewGenerator(opts...).Generate(cmd.Context(), document.Request{
				Threads:     threads,
				Format:      outFormat,
				Analyze:     analyze,
				Query:       query,
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outPath, out.Data)
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "Email records file (JSON or YAML)")
	cmd.Flags().StringVar(&format, "format", document.FormatMarkdown, "Output format: md, html or pdf")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Include an LLM analysis section per thread")
	cmd.Flags().StringVar(&query, "query", "", "Research query for the analysis sections")
	cmd.Flags().IntVar(&concurrency, "concurrency", analysis.DefaultConcurrency, "Maximum concurrent LLM requests")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default: stdout, required for pdf)")
	cmd.Flags().StringVar(&chromePath, "chrome-path", "", "Chrome/Chromium binary for pdf output. Can also use CHROME_PATH env var.")
	cmd.Flags().DurationVar(&pdfTimeout, "pdf-timeout", document.DefaultPDFTimeout, "Timeout for pdf rendering")
	filters.register(cmd, "search", true)
	llmOpts.register(cmd)
	return cmd
}
