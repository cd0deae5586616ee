package analysis

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DegradedSummary is the summary of a Result whose completion call failed.
const DegradedSummary = "Error analyzing this thread."

// Sentiment scores.
const (
	SentimentNegative = -1
	SentimentNeutral  = 0
	SentimentPositive = 1
)

// Output formats accepted by WriteResults.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Result is the analysis of one thread. It is never modified after construction.
// SentimentScore is nil when no sentiment was recognized.
type Result struct {
	ThreadID       string   `json:"threadId" yaml:"threadId"`
	Subject        string   `json:"subject" yaml:"subject"`
	Summary        string   `json:"summary" yaml:"summary"`
	Topics         []string `json:"topics" yaml:"topics"`
	RelevanceScore int      `json:"relevanceScore" yaml:"relevanceScore"`
	SentimentScore *int     `json:"sentimentScore,omitempty" yaml:"sentimentScore,omitempty"`
	KeyInsights    []string `json:"keyInsights" yaml:"keyInsights"`

	degraded bool
}

// Degraded reports whether r stands in for a failed analysis.
func (r Result) Degraded() bool {
	return r.degraded
}

// DegradedResult returns the placeholder Result for a thread whose analysis failed.
func DegradedResult(threadID, subject string) Result {
	return Result{
		ThreadID:    threadID,
		Subject:     subject,
		Summary:     DegradedSummary,
		Topics:      []string{},
		KeyInsights: []string{},
		degraded:    true,
	}
}

// ByThread indexes results by thread id. Later entries win on duplicate ids.
func ByThread(results []Result) map[string]Result {
	m := make(map[string]Result, len(results))
	for _, r := range results {
		m[r.ThreadID] = r
	}
	return m
}

// WriteResults encodes results to w as JSON or YAML.
func WriteResults(w io.Writer, results []Result, format string) error {
	if results == nil {
		results = []Result{}
	}

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results as json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml encoder: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q, must be one of: json, yaml", format)
	}
	return nil
}
