// Package cmd implements the command-line interface for courtmail.
//
// This package provides the following commands:
//   - auth: Authorize access to a Gmail account
//   - fetch: Export Gmail messages matching a query to a records file
//   - threads: Group records into threads and list them
//   - show: Print the transcript of one thread
//   - analyze: Summarize and score threads with an LLM
//   - document: Generate a court-ready evidence document (md, html or pdf)
//   - serve: Start the MCP server over stdio
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
