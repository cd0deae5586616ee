// Package document builds court-ready evidence documents from conversation threads.
//
// Assembly produces Markdown: a header with totals, one section per thread in the order
// given, the optional analysis of each thread, every message with its body in a code fence,
// and a fixed legal disclaimer. RenderHTML converts that Markdown with a deliberately small
// grammar (headers, bold, code fences, rules, list items and paragraph breaks) into the HTML
// handed to a PDFRenderer. List items are not wrapped in <ul>; print styling relies on that.
//
// Generator ties the stages together for the CLI and the MCP tools.
package document
