// Package instrumentation provides OpenTelemetry metrics and tracing for courtmail.
//
// # Metrics
//
// Analysis:
//   - llm_completions_total: Counter of completion calls by provider and status
//   - llm_completion_duration_seconds: Histogram of completion latency
//   - thread_analyses_total: Counter of thread analyses by result (ok, degraded)
//
// Documents:
//   - documents_generated_total: Counter of generated documents by format and status
//   - document_generation_duration_seconds: Histogram of generation time
//
// Gmail fetch:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// MCP tools:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Every Record* method is a no-op on a nil or disabled *Metrics, so callers never need to check
// whether instrumentation is configured.
//
// # Tracing
//
// Spans are created for thread analysis (analysis.thread), document generation
// (document.generate), Google API calls (google.<service>.<operation>) and MCP tools
// (tool.<name>).
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_EXPORTER_OTLP_INSECURE: use plain HTTP for OTLP (default: false)
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: courtmail)
package instrumentation
