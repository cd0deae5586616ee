package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// Section labels of the completion response.
const (
	LabelSummary        = "SUMMARY:"
	LabelTopics         = "TOPICS:"
	LabelRelevanceScore = "RELEVANCE_SCORE:"
	LabelSentiment      = "SENTIMENT:"
	LabelKeyInsights    = "KEY_INSIGHTS:"
)

var sectionLabels = []string{
	LabelSummary,
	LabelTopics,
	LabelRelevanceScore,
	LabelSentiment,
	LabelKeyInsights,
}

// leadingInteger matches a signed integer at the start of a section.
var leadingInteger = regexp.MustCompile(`^\s*([-+]?\d+)`)

// Parsed holds the fields recovered from a completion response.
type Parsed struct {
	Summary        string
	Topics         []string
	RelevanceScore int
	SentimentScore *int
	KeyInsights    []string
}

// ParseResponse extracts the labeled sections from a completion response.
// Each section runs from its label to the nearest following label, or to the end of the text.
func ParseResponse(text string) Parsed {
	return Parsed{
		Summary:        section(text, LabelSummary),
		Topics:         parseTopics(section(text, LabelTopics)),
		RelevanceScore: parseRelevance(section(text, LabelRelevanceScore)),
		SentimentScore: parseSentiment(section(text, LabelSentiment)),
		KeyInsights:    parseInsights(section(text, LabelKeyInsights)),
	}
}

func section(text, label string) string {
	start := strings.Index(text, label)
	if start < 0 {
		return ""
	}
	rest := text[start+len(label):]

	end := len(rest)
	for _, other := range sectionLabels {
		if other == label {
			continue
		}
		if i := strings.Index(rest, other); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(rest[:end])
}

func parseTopics(s string) []string {
	topics := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

func parseRelevance(s string) int {
	m := leadingInteger.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return min(max(n, 0), 100)
}

func parseSentiment(s string) *int {
	lower := strings.ToLower(s)
	var score int
	switch {
	case strings.Contains(lower, "positive"):
		score = SentimentPositive
	case strings.Contains(lower, "negative"):
		score = SentimentNegative
	case strings.Contains(lower, "neutral"):
		score = SentimentNeutral
	default:
		return nil
	}
	return &score
}

func parseInsights(s string) []string {
	insights := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if line != "" {
			insights = append(insights, line)
		}
	}
	return insights
}
