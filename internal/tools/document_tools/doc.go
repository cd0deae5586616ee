// Package document_tools exposes evidence document generation as the
// document_generate MCP tool.
package document_tools
