package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/document"
	"github.com/teemow/courtmail/internal/instrumentation"
	"github.com/teemow/courtmail/internal/logging"
	"github.com/teemow/courtmail/internal/mail"
	"github.com/teemow/courtmail/internal/thread"
)

// ServerContext holds the state shared by the MCP tools: the records loaded at
// startup, the threads grouped from them and the analysis/document pipeline.
type ServerContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	records   []mail.Record
	threads   []thread.Thread
	analyzer  *analysis.Analyzer
	pdf       document.PDFRenderer
	generator *document.Generator
	metrics   *instrumentation.Metrics
	logger    *slog.Logger
	mu        sync.RWMutex
	shutdown  bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithAnalyzer enables the analysis tools.
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(sc *ServerContext) {
		sc.analyzer = a
	}
}

// WithPDFRenderer enables pdf output for document generation.
func WithPDFRenderer(r document.PDFRenderer) Option {
	return func(sc *ServerContext) {
		sc.pdf = r
	}
}

// WithMetrics sets the metrics recorder used by the tools.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = m
	}
}

// WithLogger sets the logger used by the tools.
func WithLogger(l *slog.Logger) Option {
	return func(sc *ServerContext) {
		if l != nil {
			sc.logger = l
		}
	}
}

// NewServerContext groups records into threads and wires the document pipeline.
func NewServerContext(ctx context.Context, records []mail.Record, opts ...Option) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		records: records,
		threads: thread.GroupByThread(records),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}

	genOpts := []document.GeneratorOption{
		document.WithGeneratorMetrics(sc.metrics),
		document.WithGeneratorLogger(sc.logger),
	}
	// A nil *analysis.Analyzer must not reach the generator as a non-nil interface.
	if sc.analyzer != nil {
		genOpts = append(genOpts, document.WithAnalyzer(sc.analyzer))
	}
	if sc.pdf != nil {
		genOpts = append(genOpts, document.WithPDFRenderer(sc.pdf))
	}
	sc.generator = document.NewGenerator(genOpts...)

	logging.WithOperation(sc.logger, "server.init").Info("records loaded",
		slog.Int("messages", len(records)),
		slog.Int("threads", len(sc.threads)),
		slog.Bool("analysis", sc.analyzer != nil))

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Records returns the loaded email records.
func (sc *ServerContext) Records() []mail.Record {
	return sc.records
}

// Threads returns the grouped threads, most recently active first.
func (sc *ServerContext) Threads() []thread.Thread {
	return sc.threads
}

// Analyzer returns the thread analyzer, or nil when analysis is not configured.
func (sc *ServerContext) Analyzer() *analysis.Analyzer {
	return sc.analyzer
}

// PDFRenderer returns the pdf renderer, or nil when pdf output is unavailable.
func (sc *ServerContext) PDFRenderer() document.PDFRenderer {
	return sc.pdf
}

// Generator returns the document generator.
func (sc *ServerContext) Generator() *document.Generator {
	return sc.generator
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
