// Package thread_tools provides the MCP tools over the loaded email threads:
//   - threads_list: filtered thread listing
//   - thread_text: plain-text transcript of one thread
//   - threads_analyze: LLM summaries and relevance scores
package thread_tools
