// Package server holds the runtime state of the courtmail MCP server.
//
// ServerContext owns the email records loaded at startup, the threads grouped
// from them, and the analysis and document pipeline the MCP tools call into.
//
// MetricsServer exposes Prometheus metrics and health probes on a dedicated
// port while the MCP protocol itself runs over stdio:
//   - /metrics: Prometheus scrape endpoint
//   - /healthz: liveness
//   - /readyz: readiness (fails once shutdown begins)
//   - /healthz/detailed: uptime and corpus size
package server
