// Package analysis annotates conversation threads through a text-completion capability.
//
// A single analysis renders the thread with thread.RenderText, wraps it in a fixed prompt
// that asks for five labeled sections (SUMMARY, TOPICS, RELEVANCE_SCORE, SENTIMENT and
// KEY_INSIGHTS), sends one request and parses the reply with ParseResponse. Parsing never
// fails: missing or malformed sections fall back to zero values.
//
// A failed completion call does not surface as an error. AnalyzeThread returns a degraded
// Result carrying DegradedSummary and records the failure as a log event, a metric and a
// span error. AnalyzeThreads runs at most Concurrency analyses at a time and returns the
// results ordered by descending relevance.
package analysis
