package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrProvider  = "provider"
	attrFormat    = "format"
)

// Metrics provides methods for recording observability metrics.
// All Record methods are safe to call on a nil *Metrics or one built for a
// disabled provider.
type Metrics struct {
	// LLM metrics
	llmCompletionsTotal   metric.Int64Counter
	llmCompletionDuration metric.Float64Histogram

	// Analysis metrics
	threadAnalysesTotal metric.Int64Counter

	// Document metrics
	documentsGeneratedTotal    metric.Int64Counter
	documentGenerationDuration metric.Float64Histogram

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.llmCompletionsTotal, err = meter.Int64Counter(
		"llm_completions_total",
		metric.WithDescription("Total number of LLM completion requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_completions_total counter: %w", err)
	}

	m.llmCompletionDuration, err = meter.Float64Histogram(
		"llm_completion_duration_seconds",
		metric.WithDescription("LLM completion duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm_completion_duration_seconds histogram: %w", err)
	}

	m.threadAnalysesTotal, err = meter.Int64Counter(
		"thread_analyses_total",
		metric.WithDescription("Total number of thread analyses by outcome"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread_analyses_total counter: %w", err)
	}

	m.documentsGeneratedTotal, err = meter.Int64Counter(
		"documents_generated_total",
		metric.WithDescription("Total number of legal documents generated"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create documents_generated_total counter: %w", err)
	}

	m.documentGenerationDuration, err = meter.Float64Histogram(
		"document_generation_duration_seconds",
		metric.WithDescription("Document generation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document_generation_duration_seconds histogram: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) enabled() bool {
	return m != nil && m.llmCompletionsTotal != nil
}

// RecordLLMCompletion records one completion request against an LLM provider.
func (m *Metrics) RecordLLMCompletion(ctx context.Context, provider, status string, duration time.Duration) {
	if !m.enabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrProvider, provider),
		attribute.String(attrStatus, status),
	)
	m.llmCompletionsTotal.Add(ctx, 1, attrs)
	m.llmCompletionDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordThreadAnalysis records the outcome of a single thread analysis.
// result is AnalysisResultOK or AnalysisResultDegraded.
func (m *Metrics) RecordThreadAnalysis(ctx context.Context, result string) {
	if !m.enabled() {
		return
	}

	m.threadAnalysesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordDocumentGenerated records a document generation attempt.
func (m *Metrics) RecordDocumentGenerated(ctx context.Context, format, status string, duration time.Duration) {
	if !m.enabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrFormat, format),
		attribute.String(attrStatus, status),
	)
	m.documentsGeneratedTotal.Add(ctx, 1, attrs)
	m.documentGenerationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records a Google API call.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if !m.enabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolInvocation records an MCP tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if !m.enabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}
