package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/instrumentation"
	"github.com/teemow/courtmail/internal/llm"
	"github.com/teemow/courtmail/internal/logging"
)

// llmFlags override the LLM_* environment configuration.
type llmFlags struct {
	provider string
	model    string
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "llm-provider", "", "LLM provider: openai or anthropic. Can also use LLM_PROVIDER env var.")
	cmd.Flags().StringVar(&f.model, "llm-model", "", "LLM model name. Can also use LLM_MODEL env var.")
}

func (f *llmFlags) config() llm.Config {
	cfg := llm.ConfigFromEnv()
	if f.provider != "" && f.provider != cfg.Provider {
		// Re-resolve the API key for the overridden provider.
		cfg.Provider = f.provider
		switch f.provider {
		case llm.ProviderAnthropic:
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	return cfg
}

// newAnalyzer builds a thread analyzer from the LLM configuration.
func newAnalyzer(f *llmFlags, metrics *instrumentation.Metrics) (*analysis.Analyzer, error) {
	client, err := llm.New(f.config())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return analysis.NewAnalyzer(client,
		analysis.WithMetrics(metrics),
		analysis.WithLogger(slog.Default()),
	), nil
}

// startInstrumentation creates the instrumentation provider. The returned function
// flushes and stops it.
func startInstrumentation(ctx context.Context) (*instrumentation.Provider, func(), error) {
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}
	return provider, stop, nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
