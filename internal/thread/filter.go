package thread

import (
	"strings"
	"time"

	"github.com/teemow/courtmail/internal/mail"
)

// DateRange bounds the activity window of a thread. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Criteria selects threads. The zero value keeps every thread.
type Criteria struct {
	// Query is split on whitespace into lower-cased terms. A single message must contain
	// every term for the thread to match.
	Query string

	// MinMessages is the inclusive lower bound on MessageCount.
	MinMessages int

	DateRange DateRange

	// Participants are case-insensitive substrings; at least one thread participant must
	// contain at least one of them.
	Participants []string
}

// QueryTerms lower-cases and splits a query on whitespace.
func QueryTerms(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// Filter returns the threads matching every criterion, preserving input order.
func Filter(threads []Thread, c Criteria) []Thread {
	terms := QueryTerms(c.Query)
	participants := lowerNonEmpty(c.Participants)

	matched := make([]Thread, 0, len(threads))
	for _, t := range threads {
		if t.MessageCount < c.MinMessages {
			continue
		}
		if c.DateRange.From != nil && t.EndDate.Before(*c.DateRange.From) {
			continue
		}
		if c.DateRange.To != nil && t.StartDate.After(*c.DateRange.To) {
			continue
		}
		if len(participants) > 0 && !hasParticipant(t, participants) {
			continue
		}
		if len(terms) > 0 && !anyMessageMatches(t.Messages, terms) {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

func lowerNonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func hasParticipant(t Thread, needles []string) bool {
	for _, p := range t.Participants {
		p = strings.ToLower(p)
		for _, n := range needles {
			if strings.Contains(p, n) {
				return true
			}
		}
	}
	return false
}

// SearchText is the lower-cased text a query term is matched against.
func SearchText(r mail.Record) string {
	return strings.ToLower(strings.Join([]string{r.Subject, r.From, r.To, r.Body.Plain}, " "))
}

func anyMessageMatches(messages []mail.Record, terms []string) bool {
	for _, m := range messages {
		text := SearchText(m)
		all := true
		for _, term := range terms {
			if !strings.Contains(text, term) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
