package mail

import (
	"net/mail"
	"strings"
	"time"
)

// Record represents one email message.
type Record struct {
	ID          string       `json:"id" yaml:"id"`
	ThreadID    string       `json:"threadId" yaml:"threadId"`
	Subject     string       `json:"subject" yaml:"subject"`
	From        string       `json:"from" yaml:"from"`
	To          string       `json:"to" yaml:"to"`
	Date        string       `json:"date" yaml:"date"`
	Body        Body         `json:"body" yaml:"body"`
	Attachments []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

// Body holds the decoded message bodies. Either field may be empty.
type Body struct {
	Plain string `json:"plain,omitempty" yaml:"plain,omitempty"`
	HTML  string `json:"html,omitempty" yaml:"html,omitempty"`
}

// Attachment is a message attachment. Data is the base64 payload as delivered by the provider.
type Attachment struct {
	Filename string `json:"filename" yaml:"filename"`
	MimeType string `json:"mimeType" yaml:"mimeType"`
	Data     string `json:"data,omitempty" yaml:"data,omitempty"`
}

// HasPlain reports whether the record carries a non-blank plain text body.
func (r Record) HasPlain() bool {
	return strings.TrimSpace(r.Body.Plain) != ""
}

// HasHTML reports whether the record carries an HTML body.
func (r Record) HasHTML() bool {
	return r.Body.HTML != ""
}

// Time returns the parsed Date header, or the zero time when it cannot be parsed.
func (r Record) Time() time.Time {
	t, _ := ParseDate(r.Date)
	return t
}

// dateLayouts are tried in order after RFC 2822 parsing fails.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 or RFC 2822 timestamp. The boolean is false when no layout
// matched, in which case the zero time is returned.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// net/mail handles the RFC 2822 variants Gmail emits, including obsolete zone names.
	if t, err := mail.ParseDate(stripZoneComment(s)); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// stripZoneComment removes a trailing "(UTC)" style comment that net/mail rejects.
func stripZoneComment(s string) string {
	if i := strings.LastIndex(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		return s[:i]
	}
	return s
}
