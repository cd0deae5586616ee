// Package logging provides structured logging helpers for courtmail.
//
// Every component logs through log/slog with the attribute keys defined here so that
// analysis, document generation and the MCP server emit comparable records.
//
//	logger := logging.WithOperation(slog.Default(), "document.generate")
//	logger.Info("document written",
//	    logging.Format("pdf"),
//	    logging.Status(logging.StatusSuccess))
//
// Setup configures the process-wide default logger from the CLI flags.
//
// Mailbox addresses are personal data. Log AnonymizeEmail or Domain instead of the
// raw address, and never log tokens.
package logging
