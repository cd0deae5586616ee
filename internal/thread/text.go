package thread

import (
	"fmt"
	"strings"
	"time"
)

// Body placeholders used when a message has no plain text.
const (
	HTMLPlaceholder      = "[HTML Content Available]"
	NoContentPlaceholder = "[No Content]"
)

// DisplayDateLayout is the layout used for human-facing thread dates.
const DisplayDateLayout = "Jan 2, 2006 3:04 PM MST"

// FormatDate formats t for display. The zero time, which stands for an unparseable date,
// falls back to raw, or "Unknown date" when raw is empty too.
func FormatDate(t time.Time, raw string) string {
	if t.IsZero() {
		if raw != "" {
			return raw
		}
		return "Unknown date"
	}
	return t.Format(DisplayDateLayout)
}

// RenderText returns the plain-text transcript of a thread. The layout is part of the analysis
// prompt contract; change it together with analysis.BuildPrompt.
func RenderText(t Thread) string {
	var b strings.Builder

	startRaw, endRaw := "", ""
	if len(t.Messages) > 0 {
		startRaw = t.Messages[0].Date
		endRaw = t.Messages[len(t.Messages)-1].Date
	}

	fmt.Fprintf(&b, "Subject: %s\n", t.Subject)
	fmt.Fprintf(&b, "Participants: %s\n", strings.Join(t.Participants, ", "))
	fmt.Fprintf(&b, "Date Range: %s to %s\n", FormatDate(t.StartDate, startRaw), FormatDate(t.EndDate, endRaw))
	fmt.Fprintf(&b, "Message Count: %d\n", t.MessageCount)

	for i, m := range t.Messages {
		fmt.Fprintf(&b, "\n--- Message %d ---\n", i+1)
		fmt.Fprintf(&b, "From: %s\n", m.From)
		fmt.Fprintf(&b, "Date: %s\n", m.Date)
		fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
		b.WriteString("Body:\n")

		switch {
		case m.HasPlain():
			b.WriteString(strings.TrimSpace(m.Body.Plain))
		case m.HasHTML():
			b.WriteString(HTMLPlaceholder)
		default:
			b.WriteString(NoContentPlaceholder)
		}
		b.WriteString("\n")
	}

	return b.String()
}
