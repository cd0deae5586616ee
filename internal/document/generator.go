package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/instrumentation"
	"github.com/teemow/courtmail/internal/logging"
	"github.com/teemow/courtmail/internal/thread"
)

// Output formats.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatPDF      = "pdf"
)

// ErrNoAnalyzer is returned when analysis is requested from a Generator without an analyzer.
var ErrNoAnalyzer = errors.New("analysis requested but no analyzer is configured")

// ParseFormat normalizes a format name. "markdown" is accepted for md.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	case FormatHTML, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of a normalized format.
func ContentType(format string) string {
	switch format {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// ThreadAnalyzer runs batch analysis. *analysis.Analyzer satisfies it.
type ThreadAnalyzer interface {
	AnalyzeThreads(ctx context.Context, threads []thread.Thread, query string, concurrency int) []analysis.Result
}

// Request describes one document to generate.
type Request struct {
	// Threads in the order they should appear.
	Threads     []thread.Thread
	Format      string
	Analyze     bool
	Query       string
	Concurrency int
}

// Output is a generated document.
type Output struct {
	Format      string
	ContentType string
	Data        []byte
	// Analysis holds the batch results when analysis was requested, ordered by relevance.
	Analysis []analysis.Result
}

// Generator runs the assemble, render and print pipeline.
type Generator struct {
	assembler *Assembler
	analyzer  ThreadAnalyzer
	pdf       PDFRenderer
	metrics   *instrumentation.Metrics
	logger    *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithAssembler replaces the default Assembler.
func WithAssembler(a *Assembler) GeneratorOption {
	return func(g *Generator) { g.assembler = a }
}

// WithAnalyzer enables analysis requests.
func WithAnalyzer(a ThreadAnalyzer) GeneratorOption {
	return func(g *Generator) { g.analyzer = a }
}

// WithPDFRenderer sets the capability used for pdf output.
func WithPDFRenderer(r PDFRenderer) GeneratorOption {
	return func(g *Generator) { g.pdf = r }
}

// WithGeneratorMetrics sets the metrics recorder.
func WithGeneratorMetrics(m *instrumentation.Metrics) GeneratorOption {
	return func(g *Generator) { g.metrics = m }
}

// WithGeneratorLogger sets the logger.
func WithGeneratorLogger(l *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator creates a Generator. Without WithPDFRenderer, pdf requests fail.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		assembler: NewAssembler(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces the document described by req.
func (g *Generator) Generate(ctx context.Context, req Request) (*Output, error) {
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	ctx, span := instrumentation.StartDocumentSpan(ctx, format, req.Analyze,
		instrumentation.NewSpanAttributeBuilder().WithThreadCount(len(req.Threads)).Build()...)
	defer span.End()

	logger := logging.WithOperation(g.logger, "document.generate")
	start := time.Now()

	out, err := g.generate(ctx, format, req)
	duration := time.Since(start)

	if err != nil {
		g.metrics.RecordDocumentGenerated(ctx, format, instrumentation.StatusError, duration)
		instrumentation.SetSpanError(span, err)
		logger.ErrorContext(ctx, "document generation failed",
			logging.Format(format),
			logging.Duration(duration),
			logging.Err(err))
		return nil, err
	}

	g.metrics.RecordDocumentGenerated(ctx, format, instrumentation.StatusSuccess, duration)
	instrumentation.SetSpanSuccess(span)
	logger.InfoContext(ctx, "document generated",
		logging.Format(format),
		slog.Int("threads", len(req.Threads)),
		slog.Int("bytes", len(out.Data)),
		logging.Duration(duration))

	return out, nil
}

func (g *Generator) generate(ctx context.Context, format string, req Request) (*Output, error) {
	if format == FormatPDF && g.pdf == nil {
		return nil, &RenderError{Op: "lookup", Err: errors.New("no pdf renderer configured")}
	}

	out := &Output{Format: format, ContentType: ContentType(format)}

	var results map[string]analysis.Result
	if req.Analyze {
		if g.analyzer == nil {
			return nil, ErrNoAnalyzer
		}
		out.Analysis = g.analyzer.AnalyzeThreads(ctx, req.Threads, req.Query, req.Concurrency)
		results = analysis.ByThread(out.Analysis)
	}

	markdown := g.assembler.Assemble(req.Threads, results)

	switch format {
	case FormatMarkdown:
		out.Data = []byte(markdown)
	case FormatHTML:
		out.Data = []byte(RenderHTML(markdown))
	case FormatPDF:
		pdf, err := g.pdf.RenderPDF(ctx, RenderHTML(markdown))
		if err != nil {
			return nil, err
		}
		out.Data = pdf
	}

	return out, nil
}
