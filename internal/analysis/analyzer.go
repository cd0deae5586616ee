package analysis

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/courtmail/internal/instrumentation"
	"github.com/teemow/courtmail/internal/logging"
	"github.com/teemow/courtmail/internal/thread"
)

// DefaultConcurrency bounds in-flight completion requests when the caller passes no limit.
const DefaultConcurrency = 3

// Completer is a chat-style text completion capability. llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// describer is implemented by completers that can name their backend, such as llm.Client.
type describer interface {
	Provider() string
	Model() string
}

// Analyzer runs thread analyses against a Completer.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	completer Completer
	provider  string
	model     string
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for degraded analyses.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// NewAnalyzer creates an Analyzer backed by c.
func NewAnalyzer(c Completer, opts ...Option) *Analyzer {
	a := &Analyzer{
		completer: c,
		provider:  "unknown",
		logger:    slog.Default(),
	}
	if d, ok := c.(describer); ok {
		a.provider = d.Provider()
		a.model = d.Model()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeThread analyzes a single thread against query.
// A failed completion yields a degraded Result instead of an error.
func (a *Analyzer) AnalyzeThread(ctx context.Context, t thread.Thread, query string) Result {
	ctx, span := instrumentation.StartAnalysisSpan(ctx, t.ThreadID,
		instrumentation.NewSpanAttributeBuilder().WithLLM(a.provider, a.model).Build()...)
	defer span.End()

	start := time.Now()
	text, err := a.completer.Complete(ctx, SystemPrompt, BuildPrompt(query, t))
	duration := time.Since(start)

	if err != nil {
		a.metrics.RecordLLMCompletion(ctx, a.provider, instrumentation.StatusError, duration)
		a.metrics.RecordThreadAnalysis(ctx, instrumentation.AnalysisResultDegraded)
		instrumentation.SetSpanError(span, err)

		logging.WithThread(a.logger, t.ThreadID).WarnContext(ctx, "thread analysis failed",
			logging.Provider(a.provider),
			logging.Duration(duration),
			logging.Err(err))

		return DegradedResult(t.ThreadID, t.Subject)
	}

	a.metrics.RecordLLMCompletion(ctx, a.provider, instrumentation.StatusSuccess, duration)
	a.metrics.RecordThreadAnalysis(ctx, instrumentation.AnalysisResultOK)
	instrumentation.SetSpanSuccess(span)

	p := ParseResponse(text)
	return Result{
		ThreadID:       t.ThreadID,
		Subject:        t.Subject,
		Summary:        p.Summary,
		Topics:         p.Topics,
		RelevanceScore: p.RelevanceScore,
		SentimentScore: p.SentimentScore,
		KeyInsights:    p.KeyInsights,
	}
}

// AnalyzeThreads analyzes every thread with at most concurrency completions in flight.
// A concurrency of zero or less means DefaultConcurrency. The results, one per input thread,
// are ordered by descending relevance score; equal scores keep input order.
func (a *Analyzer) AnalyzeThreads(ctx context.Context, threads []thread.Thread, query string, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(threads))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, t := range threads {
		g.Go(func() error {
			results[i] = a.AnalyzeThread(ctx, t, query)
			return nil
		})
	}
	// AnalyzeThread never fails, so Wait only serves as the barrier.
	_ = g.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	a.logger.DebugContext(ctx, "thread batch analyzed",
		logging.Operation("analysis.batch"),
		slog.Int("threads", len(threads)),
		slog.Int("concurrency", concurrency))

	return results
}
