package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/thread"
)

// Title is the heading of every generated document.
const Title = "Email Correspondence Evidence"

// Fallback texts.
const (
	NoSubject               = "(No subject)"
	NoPlainTextPlaceholder  = "[No plain text content available]"
	AnalysisUnavailable     = "*Analysis unavailable*"
	GeneratedTimestampLabel = "Generated: "
)

// GeneratedLayout formats the generation timestamp in the document header.
const GeneratedLayout = "January 2, 2006 at 3:04 PM MST"

// LegalDisclaimer closes every document.
const LegalDisclaimer = `This document is a compilation of electronic mail messages exported from the account holder's
mailbox for the purpose of legal proceedings. The messages are reproduced in chronological order
within each conversation thread, with headers and plain text bodies as stored by the mail
provider. Formatting, inline images and HTML-only content may not be reproduced. Attachments are
listed by file name and type and are not embedded.

Any summaries, topics, relevance scores or insights included in this document were produced by an
automated text analysis system. They are provided solely as an aid to navigation, are not part of
the original correspondence, and must not be relied upon as evidence or as legal advice. The
original messages remain the authoritative record.

The party producing this document attests that the messages have not been altered in content.
Authenticity of the underlying records may be verified against the original mailbox upon request.`

// Assembler composes evidence documents in Markdown.
type Assembler struct {
	now func() time.Time
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithClock sets the clock used for the generation timestamp.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAssembler creates an Assembler.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble composes a document using the wall clock.
func Assemble(threads []thread.Thread, results map[string]analysis.Result) string {
	return NewAssembler().Assemble(threads, results)
}

// Assemble composes a Markdown document from threads in the order given.
//
// results may be nil, in which case no analysis sections are written. When it is non-nil,
// threads without an entry, or whose analysis degraded, get an explicit unavailable marker.
func (a *Assembler) Assemble(threads []thread.Thread, results map[string]analysis.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "- %s%s\n", GeneratedTimestampLabel, a.now().Format(GeneratedLayout))
	fmt.Fprintf(&b, "- Total Emails: %d\n", thread.TotalMessages(threads))
	fmt.Fprintf(&b, "- Total Threads: %d\n\n", len(threads))
	b.WriteString("---\n\n")

	for i, t := range threads {
		writeThread(&b, i+1, t, results)
	}

	b.WriteString("## Legal Disclaimer\n\n")
	b.WriteString(LegalDisclaimer)
	b.WriteString("\n")

	return b.String()
}

func writeThread(b *strings.Builder, n int, t thread.Thread, results map[string]analysis.Result) {
	subject := t.Subject
	if strings.TrimSpace(subject) == "" {
		subject = NoSubject
	}

	startRaw, endRaw := "", ""
	if len(t.Messages) > 0 {
		startRaw = t.Messages[0].Date
		endRaw = t.Messages[len(t.Messages)-1].Date
	}

	fmt.Fprintf(b, "## Thread %d: %s\n\n", n, subject)
	fmt.Fprintf(b, "- **Thread ID:** %s\n", t.ThreadID)
	fmt.Fprintf(b, "- **Date Range:** %s to %s\n", thread.FormatDate(t.StartDate, startRaw), thread.FormatDate(t.EndDate, endRaw))
	fmt.Fprintf(b, "- **Participants:** %s\n", strings.Join(t.Participants, ", "))
	fmt.Fprintf(b, "- **Message Count:** %d\n\n", t.MessageCount)

	if results != nil {
		writeAnalysis(b, t.ThreadID, results)
	}

	for i, m := range t.Messages {
		fmt.Fprintf(b, "### Message %d\n\n", i+1)
		fmt.Fprintf(b, "- **Email ID:** %s\n", m.ID)
		fmt.Fprintf(b, "- **From:** %s\n", m.From)
		fmt.Fprintf(b, "- **To:** %s\n", m.To)
		fmt.Fprintf(b, "- **Date:** %s\n", thread.FormatDate(m.Time(), m.Date))
		fmt.Fprintf(b, "- **Subject:** %s\n\n", m.Subject)

		body := NoPlainTextPlaceholder
		if m.HasPlain() {
			body = strings.TrimSpace(m.Body.Plain)
		}
		f := codeFence(body)
		b.WriteString(f + "\n")
		b.WriteString(body)
		b.WriteString("\n" + f + "\n\n")

		if len(m.Attachments) > 0 {
			b.WriteString("**Attachments:**\n\n")
			for _, att := range m.Attachments {
				fmt.Fprintf(b, "- %s (%s)\n", att.Filename, att.MimeType)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("---\n\n")
}

// codeFence returns a backtick fence longer than any backtick run in body.
func codeFence(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(len(fence), longest+1))
}

func writeAnalysis(b *strings.Builder, threadID string, results map[string]analysis.Result) {
	b.WriteString("### Analysis\n\n")

	r, ok := results[threadID]
	if !ok || r.Degraded() {
		b.WriteString(AnalysisUnavailable)
		b.WriteString("\n\n")
		return
	}

	fmt.Fprintf(b, "**Summary:** %s\n\n", r.Summary)
	fmt.Fprintf(b, "**Topics:** %s\n\n", strings.Join(r.Topics, ", "))
	if len(r.KeyInsights) > 0 {
		b.WriteString("**Key Insights:**\n\n")
		for _, insight := range r.KeyInsights {
			fmt.Fprintf(b, "- %s\n", insight)
		}
		b.WriteString("\n")
	}
}
